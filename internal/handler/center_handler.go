package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/response"
)

type centerDirectory interface {
	List(cityCode string) []models.Center
}

// CenterHandler lists tutoring centers.
type CenterHandler struct {
	centers centerDirectory
}

// NewCenterHandler constructs CenterHandler.
func NewCenterHandler(centers centerDirectory) *CenterHandler {
	return &CenterHandler{centers: centers}
}

// List godoc
// @Summary List centers
// @Tags Centers
// @Produce json
// @Param cityCode query string false "City code (MDA or NGP)"
// @Success 200 {object} response.Envelope
// @Router /centers [get]
func (h *CenterHandler) List(c *gin.Context) {
	response.OK(c, h.centers.List(c.Query("cityCode")))
}
