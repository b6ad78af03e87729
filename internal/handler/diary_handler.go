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

type diaryService interface {
	List() []models.DiaryEntry
	Save(ctx context.Context, req service.DiaryRequest) (*service.DiarySaveResult, error)
}

// DiaryHandler exposes daily diary endpoints.
type DiaryHandler struct {
	diaries diaryService
}

// NewDiaryHandler constructs DiaryHandler.
func NewDiaryHandler(diaries diaryService) *DiaryHandler {
	return &DiaryHandler{diaries: diaries}
}

// List godoc
// @Summary List diary entries
// @Tags Diaries
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /diaries [get]
func (h *DiaryHandler) List(c *gin.Context) {
	response.OK(c, h.diaries.List())
}

// Save godoc
// @Summary Save a diary entry
// @Tags Diaries
// @Accept json
// @Produce json
// @Param payload body service.DiaryRequest true "Diary"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Router /diaries [post]
func (h *DiaryHandler) Save(c *gin.Context) {
	var req service.DiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.diaries.Save(c.Request.Context(), req)
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
