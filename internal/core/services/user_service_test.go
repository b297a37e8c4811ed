package services

import (
	"context"
	"testing"
	"time"

	"taskdeck/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceForTest(userRepo *MockUserRepository) UserService {
	auth := NewAuthService("test-secret", 15*time.Minute, 7*24*time.Hour, nil)
	return NewUserService(userRepo, auth)
}

func TestRegister_HashesPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newUserServiceForTest(userRepo)

	userRepo.On("GetByUsername", mock.Anything, "alice").Return(nil, domain.ErrUserNotFound)
	userRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpass")

	assert.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cretpass")))
	assert.Equal(t, domain.RoleMember, user.Role)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newUserServiceForTest(userRepo)

	existing := &domain.User{ID: "user-1", Username: "alice"}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(existing, nil)

	_, err := svc.Register(context.Background(), "alice", "other@example.com", "s3cretpass")

	assert.ErrorIs(t, err, domain.ErrUserExists)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newUserServiceForTest(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.DefaultCost)
	user := &domain.User{ID: "user-1", Username: "alice", PasswordHash: string(hash), Role: domain.RoleManager}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

	got, pair, err := svc.Login(context.Background(), "alice", "s3cretpass")

	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	auth := NewAuthService("test-secret", 15*time.Minute, 7*24*time.Hour, nil)
	claims, err := auth.ValidateToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, domain.UserID("user-1"), claims.UserID())
	assert.Equal(t, domain.RoleManager, claims.Role())
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newUserServiceForTest(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.DefaultCost)
	user := &domain.User{ID: "user-1", Username: "alice", PasswordHash: string(hash)}
	userRepo.On("GetByUsername", mock.Anything, "alice").Return(user, nil)

	_, _, err := svc.Login(context.Background(), "alice", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newUserServiceForTest(userRepo)

	userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newUserServiceForTest(userRepo)

	auth := NewAuthService("test-secret", 15*time.Minute, 7*24*time.Hour, nil)
	refresh, err := auth.GenerateRefreshToken("user-1")
	assert.NoError(t, err)

	user := &domain.User{ID: "user-1", Username: "alice"}
	userRepo.On("GetByID", mock.Anything, domain.UserID("user-1")).Return(user, nil)

	pair, err := svc.Refresh(context.Background(), refresh)

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newUserServiceForTest(userRepo)

	_, err := svc.Refresh(context.Background(), "not.a.token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}
