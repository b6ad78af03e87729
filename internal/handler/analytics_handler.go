package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/response"
)

type analyticsService interface {
	MonthlyReport(filter models.MonthlyReportFilter) (*models.MonthlyReport, error)
	History(kind string) ([]models.HistoryItem, error)
	DeleteHistoryItem(ctx context.Context, kind, id string) bool
}

// AnalyticsHandler exposes the monthly report and the unified history.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// MonthlyReport godoc
// @Summary Monthly attendance report
// @Tags Reports
// @Produce json
// @Param centerId query string true "Center ID"
// @Param month query int true "Month, 0 = January"
// @Param year query int true "Year"
// @Param className query string false "Class, defaults to All"
// @Success 200 {object} response.Envelope
// @Router /reports/monthly [get]
func (h *AnalyticsHandler) MonthlyReport(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month must be a number between 0 and 11"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number"))
		return
	}
	report, err := h.analytics.MonthlyReport(models.MonthlyReportFilter{
		CenterID:  c.Query("centerId"),
		Month:     month,
		Year:      year,
		ClassName: c.Query("className"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// History godoc
// @Summary Unified history, newest first
// @Tags History
// @Produce json
// @Param type query string false "ALL, Admission, Attendance or Diary"
// @Success 200 {object} response.Envelope
// @Router /history [get]
func (h *AnalyticsHandler) History(c *gin.Context) {
	items, err := h.analytics.History(c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items, map[string]interface{}{"total": len(items)})
}

// DeleteHistoryItem godoc
// @Summary Delete a record from the history
// @Tags History
// @Produce json
// @Param type path string true "Admission, Attendance or Diary"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /history/{type}/{id} [delete]
func (h *AnalyticsHandler) DeleteHistoryItem(c *gin.Context) {
	deleted := h.analytics.DeleteHistoryItem(c.Request.Context(), c.Param("type"), c.Param("id"))
	response.OK(c, gin.H{"deleted": deleted})
}
