package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "pravah_", cfg.Storage.KeyPrefix)
	assert.True(t, cfg.Reports.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Reports.SignedURLTTL)
	assert.Equal(t, 2, cfg.Reports.WorkerRetries)
	require.Len(t, cfg.Centers, 4)
	assert.Equal(t, CenterConfig{ID: "MDA-01", Name: "Pravah Centre Madhapur", CityCode: "MDA", ShortCode: "MP"}, cfg.Centers[0])
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", " Redis ")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("REPORTS_SIGNED_URL_TTL", "not-a-duration")
	t.Setenv("REPORTS_CLEANUP_INTERVAL", "15m")
	t.Setenv("CENTERS", "NGP-09|Pravah Centre Nandanvan|ngp|nv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Reports.SignedURLTTL)
	assert.Equal(t, 15*time.Minute, cfg.Reports.CleanupInterval)
	assert.Equal(t, []CenterConfig{{ID: "NGP-09", Name: "Pravah Centre Nandanvan", CityCode: "NGP", ShortCode: "NV"}}, cfg.Centers)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedCenters(t *testing.T) {
	t.Setenv("CENTERS", "MDA-01|Madhapur")

	_, err := Load()
	assert.Error(t, err)
}
