package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest("GET", "/api/v1/students", 200, 20*time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/students", 200, 40*time.Millisecond)
	m.ObserveStoreWrite("students", nil, time.Millisecond)
	m.ObserveStoreWrite("students", errors.New("quota"), time.Millisecond)
	m.RecordExportJob("history", "csv", "finished")
	m.RecordExportJob("history", "csv", "failed")
	m.RecordLoadFallback("users", "decode_error")

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30, snap.AverageRequestDurationMs, 0.01)
	assert.Equal(t, uint64(2), snap.StoreWrites)
	assert.Equal(t, uint64(1), snap.StoreWriteFailures)
	assert.Equal(t, uint64(1), snap.ExportsFinished)
	assert.Equal(t, uint64(1), snap.ExportsFailed)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadFallbacks.WithLabelValues("users", "decode_error")))
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveStoreWrite("diaries", nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `records_store_writes_total{collection="diaries",result="ok"} 1`))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	m.ObserveStoreWrite("students", nil, time.Millisecond)
	m.RecordExportJob("history", "csv", "finished")
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}
