package http

import (
	"errors"
	"net/http"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	"taskdeck/internal/infrastructure/middleware"
	apperrors "taskdeck/pkg/errors"
	"taskdeck/pkg/utils"
	"taskdeck/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService services.TaskService
	authService services.AuthService
	logger      *zap.SugaredLogger
}

func NewTaskHandler(taskService services.TaskService, authService services.AuthService, logger *zap.SugaredLogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		authService: authService,
		logger:      logger,
	}
}

func (h *TaskHandler) SetupRoutes(router *gin.Engine, authenticate gin.HandlerFunc, access AccessGuard) {
	api := router.Group("/api/v1", authenticate)
	{
		api.POST("/tasks", h.CreateTask)
		api.PUT("/tasks/:id", h.UpdateTask)
		api.DELETE("/tasks/:id", h.DeleteTask)
		api.GET("/tasks/:projectId", access(), h.SearchTasks)
		api.POST("/tasks/:taskId/send-to-slack", h.SendToSlack)
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req struct {
		Title       string           `json:"title" binding:"required,min=1,max=200"`
		Description string           `json:"description"`
		ProjectID   domain.ProjectID `json:"projectId" binding:"required"`
		BoardID     domain.BoardID   `json:"boardId" binding:"required"`
		AssignedTo  []domain.UserID  `json:"assignedTo"`
		DueDate     *time.Time       `json:"dueDate"`
		Priority    string           `json:"priority"`
		Labels      []string         `json:"labels"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}
	req.Title = utils.SanitizeString(req.Title)
	req.Description = utils.SanitizeString(req.Description)
	if err := validation.ValidateTaskTitle(req.Title); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	userID, _, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		BoardID:     req.BoardID,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   userID,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Labels:      req.Labels,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			c.Error(apperrors.NewNotFoundError("board"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID := domain.TaskID(c.Param("id"))

	var req struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		BoardID     *domain.BoardID  `json:"boardId"`
		AssignedTo  *[]domain.UserID `json:"assignedTo"`
		DueDate     *time.Time       `json:"dueDate"`
		Priority    *string          `json:"priority"`
		Labels      *[]string        `json:"labels"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		BoardID:     req.BoardID,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Labels:      req.Labels,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.Error(apperrors.NewNotFoundError("task"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID := domain.TaskID(c.Param("id"))

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.Error(apperrors.NewNotFoundError("task"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *TaskHandler) SearchTasks(c *gin.Context) {
	projectID := domain.ProjectID(c.Param("projectId"))

	filter := domain.TaskFilter{
		Query:      c.Query("q"),
		Priority:   domain.Priority(c.Query("priority")),
		AssignedTo: domain.UserID(c.Query("assignedTo")),
	}
	if raw := c.Query("dueDate"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			due, err = time.Parse(time.RFC3339, raw)
		}
		if err != nil {
			c.Error(apperrors.NewInvalidInputError("invalid dueDate"))
			return
		}
		filter.DueBefore = &due
	}

	tasks, err := h.taskService.SearchTasks(c.Request.Context(), projectID, filter)
	if err != nil {
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) SendToSlack(c *gin.Context) {
	taskID := domain.TaskID(c.Param("taskId"))

	userID, role, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
		return
	}

	// The project is only known after loading the task, so the membership
	// check runs here instead of in the route guard.
	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.Error(apperrors.NewNotFoundError("task"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	if err := h.authService.CheckProjectAccess(c.Request.Context(), userID, role, task.ProjectID); err != nil {
		switch {
		case errors.Is(err, domain.ErrProjectNotFound):
			c.Error(apperrors.NewNotFoundError("project"))
		case errors.Is(err, domain.ErrNotMember):
			c.Error(apperrors.NewForbiddenError("access denied: not a project member"))
		default:
			h.logger.Errorw("project access check failed", "projectId", task.ProjectID, "error", err)
			c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		}
		return
	}

	if err := h.taskService.SendTaskToSlack(c.Request.Context(), taskID); err != nil {
		c.Error(apperrors.NewAppError(apperrors.ErrCodeInternal, "failed to post to slack", http.StatusBadGateway))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
