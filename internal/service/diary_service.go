package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type diaryStore interface {
	Diaries() []models.DiaryEntry
	SaveDiary(ctx context.Context, entry models.DiaryEntry) (models.DiaryEntry, bool)
}

// DiaryVolunteerRequest is one volunteer line of the diary form.
type DiaryVolunteerRequest struct {
	VolunteerID  string `json:"volunteerId"`
	Name         string `json:"name" validate:"required"`
	InTime       string `json:"inTime"`
	OutTime      string `json:"outTime"`
	Status       string `json:"status" validate:"required,oneof=Present Absent"`
	ClassHandled string `json:"classHandled"`
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
}

// DiaryRequest is the daily diary form.
type DiaryRequest struct {
	ID           string                  `json:"id"`
	Date         string                  `json:"date" validate:"required"`
	StudentCount int                     `json:"studentCount" validate:"gte=0"`
	InTime       string                  `json:"inTime"`
	OutTime      string                  `json:"outTime"`
	Thought      string                  `json:"thought"`
	Volunteers   []DiaryVolunteerRequest `json:"volunteers" validate:"dive"`
}

// DiarySaveResult reports the stored entry and whether it replaced an existing one.
type DiarySaveResult struct {
	Entry   models.DiaryEntry `json:"entry"`
	Updated bool              `json:"updated"`
}

// DiaryService records daily diary entries.
type DiaryService struct {
	store     diaryStore
	validator *validator.Validate
	logger    *zap.Logger
	ids       *millisIDs
}

// NewDiaryService constructs the diary service.
func NewDiaryService(store diaryStore, validate *validator.Validate, logger *zap.Logger) *DiaryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiaryService{store: store, validator: validate, logger: logger, ids: newMillisIDs(nil)}
}

// List returns every diary entry.
func (s *DiaryService) List() []models.DiaryEntry {
	return s.store.Diaries()
}

// Save creates the entry or replaces the one with the same ID.
func (s *DiaryService) Save(ctx context.Context, req DiaryRequest) (*DiarySaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid diary payload")
	}

	entry := models.DiaryEntry{
		ID:           strings.TrimSpace(req.ID),
		Date:         req.Date,
		StudentCount: req.StudentCount,
		InTime:       req.InTime,
		OutTime:      req.OutTime,
		Thought:      req.Thought,
		Volunteers:   make([]models.DiaryVolunteerEntry, 0, len(req.Volunteers)),
	}
	if entry.ID == "" {
		entry.ID = s.ids.Next()
	}
	for _, v := range req.Volunteers {
		entry.Volunteers = append(entry.Volunteers, models.DiaryVolunteerEntry{
			VolunteerID:  strings.ToUpper(strings.TrimSpace(v.VolunteerID)),
			Name:         v.Name,
			InTime:       v.InTime,
			OutTime:      v.OutTime,
			Status:       models.VolunteerStatus(v.Status),
			ClassHandled: v.ClassHandled,
			Subject:      v.Subject,
			Topic:        v.Topic,
		})
	}

	saved, updated := s.store.SaveDiary(ctx, entry)
	return &DiarySaveResult{Entry: saved, Updated: updated}, nil
}
