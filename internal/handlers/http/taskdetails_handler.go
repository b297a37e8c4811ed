package http

import (
	"errors"
	"net/http"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	"taskdeck/internal/infrastructure/middleware"
	apperrors "taskdeck/pkg/errors"
	"taskdeck/pkg/utils"
	"taskdeck/pkg/validation"

	"github.com/gin-gonic/gin"
)

type TaskDetailsHandler struct {
	detailsService services.TaskDetailsService
	maxUploadBytes int64
}

func NewTaskDetailsHandler(detailsService services.TaskDetailsService, maxUploadMB int64) *TaskDetailsHandler {
	return &TaskDetailsHandler{
		detailsService: detailsService,
		maxUploadBytes: maxUploadMB << 20,
	}
}

func (h *TaskDetailsHandler) SetupRoutes(router *gin.Engine, authenticate gin.HandlerFunc) {
	api := router.Group("/api/v1", authenticate)
	{
		api.POST("/tasks/:taskId/comments", h.AddComment)
		api.POST("/tasks/:taskId/subtasks", h.AddSubtask)
		api.POST("/tasks/:taskId/upload", h.UploadAttachment)
	}
}

func (h *TaskDetailsHandler) AddComment(c *gin.Context) {
	taskID := domain.TaskID(c.Param("taskId"))

	var req struct {
		Content string `json:"content" binding:"required,min=1,max=2000"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}
	req.Content = utils.SanitizeString(req.Content)
	if err := validation.ValidateCommentContent(req.Content); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	userID, _, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
		return
	}

	comment, err := h.detailsService.AddComment(c.Request.Context(), taskID, userID, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.Error(apperrors.NewNotFoundError("task"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *TaskDetailsHandler) AddSubtask(c *gin.Context) {
	taskID := domain.TaskID(c.Param("taskId"))

	var req struct {
		Title string `json:"title" binding:"required,min=1,max=200"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}

	subtask, err := h.detailsService.AddSubtask(c.Request.Context(), taskID, utils.SanitizeString(req.Title))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.Error(apperrors.NewNotFoundError("task"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subtask": subtask})
}

func (h *TaskDetailsHandler) UploadAttachment(c *gin.Context) {
	taskID := domain.TaskID(c.Param("taskId"))

	header, err := c.FormFile("file")
	if err != nil {
		c.Error(apperrors.NewInvalidInputError("file is required"))
		return
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		c.Error(apperrors.NewInvalidInputError("file too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Error(apperrors.NewInvalidInputError("file is required"))
		return
	}
	defer file.Close()

	attachment, err := h.detailsService.AddAttachment(
		c.Request.Context(),
		taskID,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.Error(apperrors.NewNotFoundError("task"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"attachment": attachment})
}
