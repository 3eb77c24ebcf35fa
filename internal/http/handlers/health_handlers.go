package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/models"
)

// HealthCheck
func (h *WatermarkHandler) HealthCheck(c *gin.Context) {
	services := h.storage.HealthCheck(c.Request.Context())
	if h.queue == nil {
		services["rabbitmq"] = "not configured"
	} else {
		services["rabbitmq"] = h.queue.HealthCheck()
	}

	overall := calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}

func (h *WatermarkHandler) GetStats(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "job queue is not available")
		return
	}

	queueStats, err := h.queue.GetQueueStats()
	if err != nil {
		h.logFailure(c, "Failed to get queue stats", err)
		h.respondError(c, http.StatusServiceUnavailable, "failed to inspect queue")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"queue":     queueStats,
			"timestamp": time.Now(),
		},
	})
}
