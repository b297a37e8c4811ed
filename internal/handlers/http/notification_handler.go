package http

import (
	"errors"
	"net/http"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	"taskdeck/internal/infrastructure/middleware"
	apperrors "taskdeck/pkg/errors"
	"taskdeck/pkg/validation"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) SetupRoutes(router *gin.Engine, authenticate gin.HandlerFunc) {
	api := router.Group("/api/v1", authenticate)
	{
		api.GET("/notifications", h.ListNotifications)
		api.PUT("/notifications/:id/read", h.MarkRead)
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, _, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
		return
	}

	notifications, err := h.notificationService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := domain.NotificationID(c.Param("id"))
	if err := validation.ValidateID(string(id)); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	userID, _, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			c.Error(apperrors.NewNotFoundError("notification"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
