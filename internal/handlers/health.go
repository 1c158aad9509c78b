package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cacheapi/internal/cache"
	"cacheapi/internal/models"
)

// HealthHandler handles the root and probe endpoints
type HealthHandler struct {
	store   cache.Cache
	appName string
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store cache.Cache, appName, version string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		appName: appName,
		version: version,
	}
}

// Root handles GET / with basic application information
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":      h.appName,
		"version":   h.version,
		"status":    "running",
		"timestamp": models.Timestamp(),
	})
}

// Health handles GET /health. It always answers 200; the body carries the
// store's condition so pollers can inspect it.
func (h *HealthHandler) Health(c *gin.Context) {
	report := h.store.Health(c.Request.Context())

	overall := cache.StatusUnhealthy
	if report.Healthy() {
		overall = cache.StatusHealthy
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    overall,
		Timestamp: models.Timestamp(),
		Version:   h.version,
		Components: map[string]interface{}{
			"redis": report,
			"api": gin.H{
				"status":  cache.StatusHealthy,
				"name":    h.appName,
				"version": h.version,
			},
		},
	})
}

// Live handles GET /health/live. A response at all means the process runs,
// so it never consults dependencies.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": models.Timestamp(),
	})
}

// Ready handles GET /health/ready: 200 only when the store answers its
// health probes, 503 otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	report := h.store.Health(c.Request.Context())

	if !report.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"timestamp": models.Timestamp(),
			"dependencies": gin.H{
				"redis": cache.StatusUnhealthy,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": models.Timestamp(),
		"dependencies": gin.H{
			"redis": cache.StatusHealthy,
		},
	})
}
