package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type syllabusStore interface {
	SyllabusProgress(centerID, week string) []models.SyllabusProgress
	SaveSyllabusProgress(ctx context.Context, batch []models.SyllabusProgress)
}

// SyllabusEntryRequest is one subject's progress for a class in a week.
type SyllabusEntryRequest struct {
	ID         string  `json:"id"`
	CenterID   string  `json:"centerId" validate:"required"`
	Week       string  `json:"week" validate:"required"`
	ClassName  string  `json:"className" validate:"required"`
	Subject    string  `json:"subject" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

// SyllabusBatchRequest carries every entry saved together.
type SyllabusBatchRequest struct {
	Entries []SyllabusEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// SyllabusService tracks weekly syllabus completion.
type SyllabusService struct {
	store     syllabusStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSyllabusService constructs the syllabus service.
func NewSyllabusService(store syllabusStore, validate *validator.Validate, logger *zap.Logger) *SyllabusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{store: store, validator: validate, logger: logger, now: time.Now}
}

// List returns the progress of one center for one week.
func (s *SyllabusService) List(centerID, week string) ([]models.SyllabusProgress, error) {
	if centerID == "" || week == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "centerId and week are required")
	}
	return s.store.SyllabusProgress(centerID, week), nil
}

// Save upserts the batch by (center, week, class, subject).
func (s *SyllabusService) Save(ctx context.Context, req SyllabusBatchRequest) ([]models.SyllabusProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid syllabus progress payload")
	}

	stamp := models.Timestamp(s.now())
	batch := make([]models.SyllabusProgress, 0, len(req.Entries))
	for _, e := range req.Entries {
		p := models.SyllabusProgress{
			ID:          strings.TrimSpace(e.ID),
			CenterID:    e.CenterID,
			Week:        e.Week,
			ClassName:   e.ClassName,
			Subject:     strings.TrimSpace(e.Subject),
			Percentage:  e.Percentage,
			LastUpdated: stamp,
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		batch = append(batch, p)
	}
	s.store.SaveSyllabusProgress(ctx, batch)
	return batch, nil
}
