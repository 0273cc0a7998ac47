package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness probes.
type HealthHandler struct {
	environment string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment}
}

// RegisterRoutes registers the health routes.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ping", h.Ping)
	router.GET("/health", h.Health)
}

// Ping answers a bare liveness check.
func (h *HealthHandler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// Health reports service status.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().Unix(),
		"environment": h.environment,
	})
}
