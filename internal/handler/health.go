package handler

import (
	"net/http"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/store"
	"github.com/cleberrangel/horario-zen-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check and metrics endpoints
type HealthHandler struct {
	store     store.Store
	wsHub     *websocket.Hub
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(st store.Store, wsHub *websocket.Hub, version string) *HealthHandler {
	return &HealthHandler{
		store:     st,
		wsHub:     wsHub,
		version:   version,
		startTime: time.Now(),
	}
}

// LivenessCheck returns basic liveness status
// @Summary Liveness check
// @Description Returns basic liveness status for probes
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health/live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck returns readiness status including dependencies
// @Summary Readiness check
// @Description Returns readiness status including persistence connectivity
// @Tags health
// @Produce json
// @Success 200 {object} metrics.HealthCheck
// @Failure 503 {object} metrics.HealthCheck
// @Router /health/ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	components := make(map[string]metrics.HealthStatus)

	components["store"] = h.checkStoreHealth()
	components["memory"] = metrics.CheckMemoryHealth(512)

	h.respond(c, components)
}

// DetailedHealthCheck returns comprehensive health information
// @Summary Detailed health check
// @Description Returns comprehensive health information including all components
// @Tags health
// @Produce json
// @Success 200 {object} metrics.HealthCheck
// @Failure 503 {object} metrics.HealthCheck
// @Router /health [get]
func (h *HealthHandler) DetailedHealthCheck(c *gin.Context) {
	components := make(map[string]metrics.HealthStatus)

	components["store"] = h.checkStoreHealth()
	components["memory"] = metrics.CheckMemoryHealth(512)

	if h.wsHub != nil {
		components["websocket"] = h.checkWebSocketHealth()
	}

	components["notifications"] = h.checkNotificationHealth()

	h.respond(c, components)
}

func (h *HealthHandler) respond(c *gin.Context, components map[string]metrics.HealthStatus) {
	overallStatus := metrics.DetermineOverallStatus(components)

	healthCheck := metrics.HealthCheck{
		Status:     overallStatus,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, healthCheck)
}

// checkStoreHealth probes the persistence port with a read
func (h *HealthHandler) checkStoreHealth() metrics.HealthStatus {
	start := time.Now()
	_, _, err := h.store.Get(store.KeySettings)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return metrics.HealthStatus{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency,
		}
	}

	if latency > 100 {
		return metrics.HealthStatus{
			Status:  "degraded",
			Message: "store latency high",
			Latency: latency,
		}
	}

	return metrics.HealthStatus{
		Status:  "healthy",
		Latency: latency,
	}
}

// checkWebSocketHealth checks WebSocket hub health
func (h *HealthHandler) checkWebSocketHealth() metrics.HealthStatus {
	if h.wsHub == nil {
		return metrics.HealthStatus{
			Status:  "unhealthy",
			Message: "WebSocket hub not initialized",
		}
	}

	// Single household, a handful of UIs at most
	if h.wsHub.GetConnectionCount() > 10 {
		return metrics.HealthStatus{
			Status:  "degraded",
			Message: "WebSocket connections near limit",
		}
	}

	return metrics.HealthStatus{
		Status: "healthy",
	}
}

// checkNotificationHealth checks delivery failure rate
func (h *HealthHandler) checkNotificationHealth() metrics.HealthStatus {
	snapshot := metrics.Get().Snapshot()

	total := snapshot.Notifications.Sent + snapshot.Notifications.Failed
	if total > 0 {
		failureRate := float64(snapshot.Notifications.Failed) / float64(total) * 100
		if failureRate > 50 {
			return metrics.HealthStatus{
				Status:  "degraded",
				Message: "high notification failure rate",
			}
		}
	}

	return metrics.HealthStatus{
		Status: "healthy",
	}
}

// GetMetrics returns application metrics
// @Summary Get application metrics
// @Description Returns all application metrics including request counts, task stats, etc.
// @Tags metrics
// @Produce json
// @Success 200 {object} metrics.MetricsSnapshot
// @Router /metrics [get]
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	snapshot := metrics.Get().Snapshot()
	c.JSON(http.StatusOK, snapshot)
}

// GetMetricsSummary returns a summary of key metrics
// @Summary Get metrics summary
// @Description Returns a summary of key application metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics/summary [get]
func (h *HealthHandler) GetMetricsSummary(c *gin.Context) {
	snapshot := metrics.Get().Snapshot()

	requestSuccessRate := float64(0)
	if snapshot.Requests.Total > 0 {
		requestSuccessRate = float64(snapshot.Requests.Successful) / float64(snapshot.Requests.Total) * 100
	}

	notifSuccessRate := float64(0)
	totalNotifs := snapshot.Notifications.Sent + snapshot.Notifications.Failed
	if totalNotifs > 0 {
		notifSuccessRate = float64(snapshot.Notifications.Sent) / float64(totalNotifs) * 100
	}

	summary := gin.H{
		"uptime_seconds": snapshot.UptimeSeconds,
		"version":        h.version,
		"requests": gin.H{
			"total":        snapshot.Requests.Total,
			"success_rate": requestSuccessRate,
			"avg_latency":  snapshot.Requests.AvgLatencyMs,
		},
		"tasks": gin.H{
			"created":     snapshot.Tasks.Created,
			"completed":   snapshot.Tasks.Completed,
			"rolled_over": snapshot.Tasks.RolledOver,
		},
		"intelligence": gin.H{
			"runs":       snapshot.Intelligence.Runs,
			"injections": snapshot.Intelligence.Injections,
		},
		"notifications": gin.H{
			"sent":         snapshot.Notifications.Sent,
			"failed":       snapshot.Notifications.Failed,
			"success_rate": notifSuccessRate,
		},
		"websocket": gin.H{
			"connections": snapshot.WebSocket.Connections,
		},
		"system": gin.H{
			"goroutines":  snapshot.System.Goroutines,
			"heap_mb":     snapshot.System.HeapAllocMB,
			"heap_use_mb": snapshot.System.HeapInUseMB,
		},
	}

	c.JSON(http.StatusOK, summary)
}

// GetEndpointMetrics returns metrics for specific endpoints
// @Summary Get endpoint metrics
// @Description Returns metrics broken down by endpoint
// @Tags metrics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /metrics/endpoints [get]
func (h *HealthHandler) GetEndpointMetrics(c *gin.Context) {
	snapshot := metrics.Get().Snapshot()

	c.JSON(http.StatusOK, gin.H{
		"endpoints": snapshot.Endpoints,
	})
}
