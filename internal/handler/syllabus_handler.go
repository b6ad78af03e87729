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

type syllabusService interface {
	List(centerID, week string) ([]models.SyllabusProgress, error)
	Save(ctx context.Context, req service.SyllabusBatchRequest) ([]models.SyllabusProgress, error)
}

// SyllabusHandler exposes weekly syllabus progress endpoints.
type SyllabusHandler struct {
	syllabus syllabusService
}

// NewSyllabusHandler constructs SyllabusHandler.
func NewSyllabusHandler(syllabus syllabusService) *SyllabusHandler {
	return &SyllabusHandler{syllabus: syllabus}
}

// List godoc
// @Summary Syllabus progress of a center for a week
// @Tags Syllabus
// @Produce json
// @Param centerId query string true "Center ID"
// @Param week query string true "Week label"
// @Success 200 {object} response.Envelope
// @Router /syllabus [get]
func (h *SyllabusHandler) List(c *gin.Context) {
	progress, err := h.syllabus.List(c.Query("centerId"), c.Query("week"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, progress)
}

// Save godoc
// @Summary Save syllabus progress
// @Tags Syllabus
// @Accept json
// @Produce json
// @Param payload body service.SyllabusBatchRequest true "Entries"
// @Success 200 {object} response.Envelope
// @Router /syllabus [post]
func (h *SyllabusHandler) Save(c *gin.Context) {
	var req service.SyllabusBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	saved, err := h.syllabus.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, saved)
}
