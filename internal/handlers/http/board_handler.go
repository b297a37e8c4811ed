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
	"go.uber.org/zap"
)

type BoardHandler struct {
	boardService services.BoardService
	authService  services.AuthService
	logger       *zap.SugaredLogger
}

func NewBoardHandler(boardService services.BoardService, authService services.AuthService, logger *zap.SugaredLogger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		authService:  authService,
		logger:       logger,
	}
}

func (h *BoardHandler) SetupRoutes(router *gin.Engine, authenticate gin.HandlerFunc, access AccessGuard) {
	api := router.Group("/api/v1", authenticate)
	{
		// projectId comes from the request body; the guard reads it there.
		api.POST("/boards", access(), h.CreateBoard)
		api.GET("/boards/:id", h.GetBoard)
	}
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req struct {
		Name      string           `json:"name" binding:"required,min=1,max=100"`
		ProjectID domain.ProjectID `json:"projectId" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}
	if err := validation.ValidateBoardName(req.Name); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), req.ProjectID, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			c.Error(apperrors.NewNotFoundError("project"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"board": board})
}

func (h *BoardHandler) GetBoard(c *gin.Context) {
	boardID := domain.BoardID(c.Param("id"))

	userID, role, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized, access denied"})
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			c.Error(apperrors.NewNotFoundError("board"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	// The route carries only the board id, so the membership check runs
	// here against the board's project.
	if err := h.authService.CheckProjectAccess(c.Request.Context(), userID, role, board.ProjectID); err != nil {
		switch {
		case errors.Is(err, domain.ErrProjectNotFound):
			c.Error(apperrors.NewNotFoundError("project"))
		case errors.Is(err, domain.ErrNotMember):
			c.Error(apperrors.NewForbiddenError("access denied: not a project member"))
		default:
			h.logger.Errorw("project access check failed", "projectId", board.ProjectID, "error", err)
			c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": board})
}
