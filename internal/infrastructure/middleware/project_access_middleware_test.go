package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newAccessRouter(authService services.AuthService, allowed ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop().Sugar()
	router := gin.New()
	guard := ProjectAccessMiddleware(authService, logger, allowed...)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/projects/:projectId/tasks", AuthMiddleware(authService), guard, ok)
	router.POST("/tasks", AuthMiddleware(authService), guard, ok)
	return router
}

func bearerFor(t *testing.T, authService services.AuthService, id domain.UserID, role domain.Role) string {
	t.Helper()
	token, err := authService.GenerateToken(&domain.User{ID: id, Role: role})
	assert.NoError(t, err)
	return "Bearer " + token
}

func TestProjectAccess_MissingProjectID(t *testing.T) {
	repo := new(mockProjectRepo)
	authService := services.NewAuthService(testSecret, 15*time.Minute, time.Hour, repo)
	router := newAccessRouter(authService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"title":"no project"}`))
	req.Header.Set("Authorization", bearerFor(t, authService, "user-1", domain.RoleMember))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "projectId is required")
}

func TestProjectAccess_ProjectIDFromBody(t *testing.T) {
	repo := new(mockProjectRepo)
	project := &domain.Project{ID: "project-1", Owner: "user-1", Members: []domain.UserID{"user-1"}}
	repo.On("GetByID", mock.Anything, domain.ProjectID("project-1")).Return(project, nil)

	authService := services.NewAuthService(testSecret, 15*time.Minute, time.Hour, repo)
	router := newAccessRouter(authService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"projectId":"project-1"}`))
	req.Header.Set("Authorization", bearerFor(t, authService, "user-1", domain.RoleMember))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjectAccess_ProjectNotFound(t *testing.T) {
	repo := new(mockProjectRepo)
	repo.On("GetByID", mock.Anything, domain.ProjectID("missing")).Return(nil, domain.ErrProjectNotFound)

	authService := services.NewAuthService(testSecret, 15*time.Minute, time.Hour, repo)
	router := newAccessRouter(authService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/projects/missing/tasks", nil)
	req.Header.Set("Authorization", bearerFor(t, authService, "user-1", domain.RoleMember))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectAccess_NonMemberForbidden(t *testing.T) {
	repo := new(mockProjectRepo)
	project := &domain.Project{ID: "project-1", Owner: "owner", Members: []domain.UserID{"owner"}}
	repo.On("GetByID", mock.Anything, domain.ProjectID("project-1")).Return(project, nil)

	authService := services.NewAuthService(testSecret, 15*time.Minute, time.Hour, repo)
	router := newAccessRouter(authService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/projects/project-1/tasks", nil)
	req.Header.Set("Authorization", bearerFor(t, authService, "stranger", domain.RoleAdmin))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not a project member")
}

func TestProjectAccess_MemberOutsideAllowList(t *testing.T) {
	repo := new(mockProjectRepo)
	project := &domain.Project{ID: "project-1", Owner: "u1", Members: []domain.UserID{"u1", "u2"}}
	repo.On("GetByID", mock.Anything, domain.ProjectID("project-1")).Return(project, nil)

	authService := services.NewAuthService(testSecret, 15*time.Minute, time.Hour, repo)
	router := newAccessRouter(authService, domain.RoleAdmin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/projects/project-1/tasks", nil)
	req.Header.Set("Authorization", bearerFor(t, authService, "u2", domain.RoleMember))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient role")
}

func TestProjectAccess_OwnerBypassesAllowList(t *testing.T) {
	repo := new(mockProjectRepo)
	project := &domain.Project{ID: "project-1", Owner: "u1", Members: []domain.UserID{"u1", "u2"}}
	repo.On("GetByID", mock.Anything, domain.ProjectID("project-1")).Return(project, nil)

	authService := services.NewAuthService(testSecret, 15*time.Minute, time.Hour, repo)
	router := newAccessRouter(authService, domain.RoleAdmin)

	// Owner role is outside the allow-list; ownership still wins.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/projects/project-1/tasks", nil)
	req.Header.Set("Authorization", bearerFor(t, authService, "u1", domain.RoleMember))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjectAccess_LookupFaultIs500(t *testing.T) {
	repo := new(mockProjectRepo)
	repo.On("GetByID", mock.Anything, domain.ProjectID("project-1")).Return(nil, assert.AnError)

	authService := services.NewAuthService(testSecret, 15*time.Minute, time.Hour, repo)
	router := newAccessRouter(authService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/projects/project-1/tasks", nil)
	req.Header.Set("Authorization", bearerFor(t, authService, "user-1", domain.RoleMember))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
