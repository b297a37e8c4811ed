package http

import (
	"errors"
	"net/http"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"
	apperrors "taskdeck/pkg/errors"
	"taskdeck/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			c.Error(apperrors.NewInvalidInputError("user already exists"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}

	user, pair, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.Error(apperrors.NewUnauthorizedError("invalid credentials"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "internal server error", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user":         user,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request format"))
		return
	}

	pair, err := h.userService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Error(apperrors.NewUnauthorizedError("invalid refresh token"))
		return
	}

	c.JSON(http.StatusOK, pair)
}
