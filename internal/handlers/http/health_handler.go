package http

import (
	"net/http"

	"taskdeck/internal/infrastructure/monitoring"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	checker *monitoring.HealthChecker
}

func NewHealthHandler(checker *monitoring.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

// Health reports liveness only; it never touches dependencies.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports dependency health for load balancers.
func (h *HealthHandler) Ready(c *gin.Context) {
	status := h.checker.CheckAll(c.Request.Context())
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
