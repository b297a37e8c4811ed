package middleware

import (
	"context"
	"net/http"
	"strings"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	"taskdeck/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Context keys populated by AuthMiddleware for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// AuthMiddleware guards protected routes. Missing and invalid credentials
// both surface as the same generic 401 so callers cannot tell which check
// failed.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
			c.Abort()
			return
		}

		// Only the part after the first space is the token. A bare scheme
		// with an empty value is an invalid credential, not a missing one.
		token := ""
		if idx := strings.Index(authHeader, " "); idx >= 0 {
			token = authHeader[idx+1:]
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID())
		c.Set(ContextRole, claims.Role())

		// Make the identity visible to context-aware logging downstream.
		ctx := context.WithValue(c.Request.Context(), logger.ContextKeyUserID, string(claims.UserID()))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserFromContext returns the authenticated identity placed by AuthMiddleware.
func UserFromContext(c *gin.Context) (domain.UserID, domain.Role, bool) {
	idVal, ok := c.Get(ContextUserID)
	if !ok {
		return "", "", false
	}
	id, ok := idVal.(domain.UserID)
	if !ok {
		return "", "", false
	}

	role := domain.RoleMember
	if roleVal, ok := c.Get(ContextRole); ok {
		if r, ok := roleVal.(domain.Role); ok {
			role = r
		}
	}
	return id, role, true
}
