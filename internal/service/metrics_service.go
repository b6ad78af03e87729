package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	storeWrites     *prometheus.CounterVec
	storeWriteTime  *prometheus.HistogramVec
	loadFallbacks   *prometheus.CounterVec
	exportJobs      *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	storeWriteCount      uint64
	storeWriteFailures   uint64
	exportFinished       uint64
	exportFailed         uint64
}

// MetricsSnapshot is a compact view of the process counters.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	StoreWrites              uint64    `json:"storeWrites"`
	StoreWriteFailures       uint64    `json:"storeWriteFailures"`
	ExportsFinished          uint64    `json:"exportsFinished"`
	ExportsFailed            uint64    `json:"exportsFailed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	storeWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "records_store_writes_total",
		Help: "Write-through attempts per collection and result",
	}, []string{"collection", "result"})

	storeWriteTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "records_store_write_seconds",
		Help:    "Latency of write-through operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})

	loadFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "records_store_load_fallbacks_total",
		Help: "Collections that fell back to defaults at startup",
	}, []string{"collection", "reason"})

	exportJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "export_jobs_total",
		Help: "Export jobs per kind, format and outcome",
	}, []string{"kind", "format", "status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, storeWrites, storeWriteTime, loadFallbacks, exportJobs, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		storeWrites:     storeWrites,
		storeWriteTime:  storeWriteTime,
		loadFallbacks:   loadFallbacks,
		exportJobs:      exportJobs,
	}
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveStoreWrite records one write-through of a collection.
func (m *MetricsService) ObserveStoreWrite(collection string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		atomic.AddUint64(&m.storeWriteFailures, 1)
	}
	m.storeWrites.WithLabelValues(collection, result).Inc()
	m.storeWriteTime.WithLabelValues(collection).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeWriteCount, 1)
}

// RecordLoadFallback counts a collection that could not be loaded.
func (m *MetricsService) RecordLoadFallback(collection, reason string) {
	if m == nil {
		return
	}
	m.loadFallbacks.WithLabelValues(collection, reason).Inc()
}

// RecordExportJob counts a finished or failed export.
func (m *MetricsService) RecordExportJob(kind, format, status string) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(kind, format, status).Inc()
	switch status {
	case "finished":
		atomic.AddUint64(&m.exportFinished, 1)
	case "failed":
		atomic.AddUint64(&m.exportFailed, 1)
	}
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		StoreWrites:              atomic.LoadUint64(&m.storeWriteCount),
		StoreWriteFailures:       atomic.LoadUint64(&m.storeWriteFailures),
		ExportsFinished:          atomic.LoadUint64(&m.exportFinished),
		ExportsFailed:            atomic.LoadUint64(&m.exportFailed),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
