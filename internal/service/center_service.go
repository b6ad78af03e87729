package service

import (
	"strings"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/config"
)

// CenterService is the read-only directory of tutoring centers.
type CenterService struct {
	centers []models.Center
}

// NewCenterService builds the directory from configuration.
func NewCenterService(cfg []config.CenterConfig) *CenterService {
	centers := make([]models.Center, 0, len(cfg))
	for _, c := range cfg {
		centers = append(centers, models.Center{ID: c.ID, Name: c.Name, CityCode: c.CityCode, ShortCode: c.ShortCode})
	}
	return &CenterService{centers: centers}
}

// List returns every center, or only those of cityCode when it is set.
func (s *CenterService) List(cityCode string) []models.Center {
	cityCode = strings.ToUpper(strings.TrimSpace(cityCode))
	out := make([]models.Center, 0, len(s.centers))
	for _, c := range s.centers {
		if cityCode == "" || c.CityCode == cityCode {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the center with id.
func (s *CenterService) Find(id string) (models.Center, bool) {
	for _, c := range s.centers {
		if c.ID == id {
			return c, true
		}
	}
	return models.Center{}, false
}
