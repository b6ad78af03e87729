package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Handlers groups every handler mounted by Register.
type Handlers struct {
	Auth        *AuthHandler
	Feedback    *FeedbackHandler
	Centers     *CenterHandler
	Students    *StudentHandler
	Attendance  *AttendanceHandler
	Diaries     *DiaryHandler
	Performance *PerformanceHandler
	Syllabus    *SyllabusHandler
	Analytics   *AnalyticsHandler
	Reports     *ReportHandler
	Metrics     *MetricsHandler
}

// Register mounts the probes at the root and the portal API under apiPrefix.
func (h Handlers) Register(r gin.IRouter, apiPrefix string) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
		r.GET("/metrics/summary", h.Metrics.Summary)
	}

	prefix := "/" + strings.Trim(apiPrefix, "/")
	api := r.Group(prefix)

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.PUT("/users/:volunteerId", h.Auth.UpdateUser)
	api.POST("/feedback", h.Feedback.Submit)

	api.GET("/centers", h.Centers.List)

	api.GET("/students", h.Students.List)
	api.POST("/students", h.Students.Create)
	api.GET("/students/:id/performance", h.Performance.ByStudent)
	api.GET("/students/:id/performance/analytics", h.Performance.Analytics)
	api.GET("/students/:id/performance/trend", h.Performance.Trend)
	api.POST("/performance", h.Performance.Save)

	api.GET("/attendance", h.Attendance.History)
	api.POST("/attendance", h.Attendance.Save)

	api.GET("/diaries", h.Diaries.List)
	api.POST("/diaries", h.Diaries.Save)

	api.GET("/syllabus", h.Syllabus.List)
	api.POST("/syllabus", h.Syllabus.Save)

	api.GET("/reports/monthly", h.Analytics.MonthlyReport)
	api.GET("/history", h.Analytics.History)
	api.DELETE("/history/:type/:id", h.Analytics.DeleteHistoryItem)

	api.POST("/exports", h.Reports.CreateExport)
	api.GET("/exports/download/:token", h.Reports.Download)
	api.GET("/exports/:id", h.Reports.ExportStatus)
}
