package http

import (
	"errors"
	"fmt"
	"net/http"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	"taskdeck/internal/infrastructure/middleware"
	apperrors "taskdeck/pkg/errors"
	"taskdeck/pkg/validation"

	"github.com/gin-gonic/gin"
)

// AccessGuard builds the membership/role guard for one route. The empty
// allow-list means membership alone is sufficient.
type AccessGuard func(allowed ...domain.Role) gin.HandlerFunc

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) SetupRoutes(router *gin.Engine, authenticate gin.HandlerFunc, access AccessGuard) {
	api := router.Group("/api/v1", authenticate)
	{
		api.POST("/projects", h.CreateProject)
		api.GET("/projects/:projectId", access(), h.GetProject)
		api.PUT("/projects/:projectId", access(domain.RoleManager, domain.RoleAdmin), h.UpdateProject)
		api.DELETE("/projects/:projectId", access(domain.RoleAdmin), h.DeleteProject)
		api.GET("/projects/:projectId/analytics", access(), h.Analytics)
		api.GET("/projects/:projectId/export/tasks", access(), h.ExportTasks)
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=1,max=100"`
		Description string `json:"description"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}
	if err := validation.ValidateProjectName(req.Name); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	userID, _, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID := domain.ProjectID(c.Param("projectId"))

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.Error(apperrors.NewNotFoundError("project"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID := domain.ProjectID(c.Param("projectId"))

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), projectID, services.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.Error(apperrors.NewNotFoundError("project"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID := domain.ProjectID(c.Param("projectId"))

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.Error(apperrors.NewNotFoundError("project"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ProjectHandler) Analytics(c *gin.Context) {
	projectID := domain.ProjectID(c.Param("projectId"))

	counts, err := h.projectService.Analytics(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.Error(apperrors.NewNotFoundError("project"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": counts})
}

func (h *ProjectHandler) ExportTasks(c *gin.Context) {
	projectID := domain.ProjectID(c.Param("projectId"))

	data, err := h.projectService.ExportTasksCSV(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.Error(apperrors.NewNotFoundError("project"))
			return
		}
		if errors.Is(err, domain.ErrTaskNotFound) {
			c.Error(apperrors.NewNotFoundError("tasks"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-tasks.csv", projectID))
	c.Data(http.StatusOK, "text/csv", data)
}
