package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/service"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/response"
)

type performanceService interface {
	Save(ctx context.Context, req service.PerformanceRequest) (*models.StudentPerformance, error)
	ByStudent(studentID string) []models.StudentPerformance
	Analytics(studentID string) *models.PerformanceAnalytics
	Trend(studentID string) []models.TrendPoint
}

// PerformanceHandler exposes test score endpoints.
type PerformanceHandler struct {
	performance performanceService
}

// NewPerformanceHandler constructs PerformanceHandler.
func NewPerformanceHandler(performance performanceService) *PerformanceHandler {
	return &PerformanceHandler{performance: performance}
}

// Save godoc
// @Summary Record a test
// @Tags Performance
// @Accept json
// @Produce json
// @Param payload body service.PerformanceRequest true "Test scores"
// @Success 201 {object} response.Envelope
// @Router /performance [post]
func (h *PerformanceHandler) Save(c *gin.Context) {
	var req service.PerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	perf, err := h.performance.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, perf)
}

// ByStudent godoc
// @Summary List a student's tests
// @Tags Performance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/performance [get]
func (h *PerformanceHandler) ByStudent(c *gin.Context) {
	response.OK(c, h.performance.ByStudent(c.Param("id")))
}

// Analytics godoc
// @Summary Summarise a student's tests
// @Description Data is empty when the student has no tests.
// @Tags Performance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/performance/analytics [get]
func (h *PerformanceHandler) Analytics(c *gin.Context) {
	result := h.performance.Analytics(c.Param("id"))
	if result == nil {
		response.Message(c, http.StatusOK, "no performance records")
		return
	}
	response.OK(c, result)
}

// Trend godoc
// @Summary Average score per test over time
// @Tags Performance
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/performance/trend [get]
func (h *PerformanceHandler) Trend(c *gin.Context) {
	response.OK(c, h.performance.Trend(c.Param("id")))
}
