package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	"taskdeck/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextProjectID is set once the authorizer has resolved the target project.
const ContextProjectID = "project_id"

// ProjectAccessMiddleware authorizes project-scoped routes. It runs after
// AuthMiddleware and checks membership plus an optional role allow-list.
// An empty allow-list means membership alone is sufficient. The project
// owner is granted unconditionally, even with a role outside the allow-list.
func ProjectAccessMiddleware(authService services.AuthService, logger *zap.SugaredLogger, allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := UserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
			c.Abort()
			return
		}

		projectID := resolveProjectID(c)
		if utils.IsEmpty(string(projectID)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
			c.Abort()
			return
		}

		err := authService.CheckProjectAccess(c.Request.Context(), userID, role, projectID, allowed...)
		switch {
		case err == nil:
			c.Set(ContextProjectID, projectID)
			c.Next()
		case errors.Is(err, domain.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			c.Abort()
		case errors.Is(err, domain.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied: not a project member"})
			c.Abort()
		case errors.Is(err, domain.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied: insufficient role"})
			c.Abort()
		default:
			logger.Errorw("project access check failed",
				"user_id", userID,
				"project_id", projectID,
				"error", err,
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			c.Abort()
		}
	}
}

// resolveProjectID pulls the target project id from the route, falling back
// to a projectId field in a JSON body. The body is restored so handlers can
// still bind it.
func resolveProjectID(c *gin.Context) domain.ProjectID {
	if id := c.Param("projectId"); id != "" {
		return domain.ProjectID(id)
	}

	if c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var req struct {
		ProjectID domain.ProjectID `json:"projectId"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return ""
	}
	return req.ProjectID
}
