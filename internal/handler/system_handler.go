package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduhubvn/moderation-api/internal/service"
	"github.com/eduhubvn/moderation-api/pkg/response"
)

// SystemHandler serves health and metrics endpoints.
type SystemHandler struct {
	metrics *service.MetricsService
	started time.Time
}

// NewSystemHandler constructs the handler.
func NewSystemHandler(metrics *service.MetricsService) *SystemHandler {
	return &SystemHandler{metrics: metrics, started: time.Now()}
}

// Health godoc
// @Summary Service liveness
// @Tags system
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	}, nil)
}

// Metrics exposes the Prometheus registry.
func (h *SystemHandler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
