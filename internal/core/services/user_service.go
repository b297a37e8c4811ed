package services

import (
	"context"
	"errors"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/ports"
	"taskdeck/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair is returned on successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetUser(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type userService struct {
	userRepo ports.UserRepository
	auth     AuthService
}

func NewUserService(userRepo ports.UserRepository, auth AuthService) UserService {
	return &userService{userRepo: userRepo, auth: auth}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           domain.UserID(utils.NewID()),
		Username:     utils.NormalizeUsername(username),
		Email:        utils.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*domain.User, *TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, utils.NormalizeUsername(username))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID())
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *userService) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) issueTokens(user *domain.User) (*TokenPair, error) {
	access, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.auth.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
