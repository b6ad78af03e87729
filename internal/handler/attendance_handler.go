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

type attendanceService interface {
	History() []models.AttendanceRecord
	Save(ctx context.Context, req service.AttendanceRequest) (*service.AttendanceSaveResult, error)
}

// AttendanceHandler exposes attendance session endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// History godoc
// @Summary List attendance sessions
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	response.OK(c, h.attendance.History())
}

// Save godoc
// @Summary Record an attendance session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.AttendanceRequest true "Session"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Save(c *gin.Context) {
	var req service.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.attendance.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	response.JSON(c, status, result)
}
