package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/repository"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/service"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/config"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/kvstore"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func buildPortalRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewRecordsStore(context.Background(), kvstore.NewMemoryStore(), "pravah_")
	centers := service.NewCenterService([]config.CenterConfig{
		{ID: "MDA-01", Name: "Pravah Centre Madhapur", CityCode: "MDA", ShortCode: "MP"},
		{ID: "NGP-01", Name: "Pravah Centre Sitabuldi", CityCode: "NGP", ShortCode: "SB"},
	})
	metrics := service.NewMetricsService()

	router := gin.New()
	Handlers{
		Auth:        NewAuthHandler(service.NewUserService(store, centers, nil, nil)),
		Feedback:    NewFeedbackHandler(service.NewFeedbackService(store, nil, nil)),
		Centers:     NewCenterHandler(centers),
		Students:    NewStudentHandler(service.NewStudentService(store, centers, nil, nil)),
		Attendance:  NewAttendanceHandler(service.NewAttendanceService(store, nil, nil)),
		Diaries:     NewDiaryHandler(service.NewDiaryService(store, nil, nil)),
		Performance: NewPerformanceHandler(service.NewPerformanceService(store, nil, nil)),
		Syllabus:    NewSyllabusHandler(service.NewSyllabusService(store, nil, nil)),
		Analytics:   NewAnalyticsHandler(service.NewAnalyticsService(store, nil)),
		Reports:     NewReportHandler(&reportServiceMock{}, nil),
		Metrics:     NewMetricsHandler(metrics, store),
	}.Register(router, "/api/v1")
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestRouterAuthFlow(t *testing.T) {
	router := buildPortalRouter(t)

	t.Run("default volunteer logs in", func(t *testing.T) {
		w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"volunteerId":"25mda177","password":"password"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Contains(t, string(env.Data), `"cityCode":"MDA"`)
		assert.Contains(t, string(env.Data), "MDA-01")
		assert.NotContains(t, string(env.Data), "password")
	})

	t.Run("wrong password", func(t *testing.T) {
		w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", `{"volunteerId":"25MDA177","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "Invalid Volunteer ID or Password", env.Message)
	})

	t.Run("register then duplicate", func(t *testing.T) {
		payload := `{"volunteerId":"25NGP010","name":"Meera","password":"pw"}`
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", payload)
		require.Equal(t, http.StatusCreated, w.Code)
		w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", payload)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Volunteer ID already registered", env.Message)
	})

	t.Run("update name", func(t *testing.T) {
		w, env := doJSON(t, router, http.MethodPut, "/api/v1/users/25MDA177", `{"name":"Preet P"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(env.Data), "Preet P")
	})

	t.Run("feedback", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/feedback", `{"volunteerId":"25MDA177","subject":"Books","message":"More books please"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestRouterRecordsFlow(t *testing.T) {
	router := buildPortalRouter(t)

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/students", `{"id":"25MDAMP101","name":"Asha","centerId":"MDA-01","classLevel":"5"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, string(env.Data), `"updated":false`)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/students", `{"id":"25MDAMP101","name":"Asha K","centerId":"MDA-01"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/students?centerId=MDA-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Meta["total"])

	w, env = doJSON(t, router, http.MethodPost, "/api/v1/attendance", `{"date":"2025-05-05T09:00:00Z","presentStudentIds":["25MDAMP101"],"mode":"QR"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var saved struct {
		Record struct {
			ID string `json:"id"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/reports/monthly?centerId=MDA-01&month=4&year=2025", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"workingDays":1`)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/reports/monthly?centerId=MDA-01&year=2025", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/history?type=Attendance", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Meta["total"])

	w, env = doJSON(t, router, http.MethodDelete, "/api/v1/history/Attendance/"+saved.Record.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":true}`, string(env.Data))

	w, env = doJSON(t, router, http.MethodDelete, "/api/v1/history/Grades/x", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":false}`, string(env.Data))

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/diaries", `{"date":"2025-05-05","volunteers":[{"name":"Preet","status":"Present"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/diaries", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterPerformanceAndSyllabus(t *testing.T) {
	router := buildPortalRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/performance", `{"studentId":"S1","testName":"Unit 1","scores":[{"subject":"Maths","score":120}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, env := doJSON(t, router, http.MethodGet, "/api/v1/students/S1/performance/analytics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no performance records", env.Message)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/performance", `{"studentId":"S1","testName":"Unit 1","date":"2025-05-01","scores":[{"subject":"Maths","score":80},{"subject":"English","score":60}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/students/S1/performance/analytics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"average":70`)

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/students/S1/performance/trend", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"testName":"Unit 1"`)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/syllabus", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/syllabus", `{"entries":[{"centerId":"MDA-01","week":"2025-W19","className":"5","subject":"Maths","percentage":50}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/syllabus?centerId=MDA-01&week=2025-W19", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"percentage":50`)
}

func TestRouterProbes(t *testing.T) {
	router := buildPortalRouter(t)

	w, _ := doJSON(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/centers?cityCode=NGP", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "NGP-01")
	assert.NotContains(t, w.Body.String(), "MDA-01")

	w, _ = doJSON(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
}
