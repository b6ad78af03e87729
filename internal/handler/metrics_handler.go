package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/service"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/response"
)

type persistenceProbe interface {
	PersistFailures() (int64, error)
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	store   persistenceProbe
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, store persistenceProbe) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, store: store}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Summary returns aggregated counters as JSON.
func (h *MetricsHandler) Summary(c *gin.Context) {
	response.OK(c, h.metrics.Snapshot())
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether write-through persistence has been failing. The service keeps
// answering from memory either way, so the status code stays 200.
func (h *MetricsHandler) Ready(c *gin.Context) {
	body := gin.H{"status": "ready", "persistFailures": int64(0)}
	if h.store != nil {
		failures, lastErr := h.store.PersistFailures()
		body["persistFailures"] = failures
		if failures > 0 {
			body["status"] = "degraded"
		}
		if lastErr != nil {
			body["lastPersistError"] = lastErr.Error()
		}
	}
	c.JSON(http.StatusOK, body)
}
