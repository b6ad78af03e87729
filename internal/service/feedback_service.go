package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type feedbackStore interface {
	AddFeedback(ctx context.Context, feedback models.Feedback) models.Feedback
}

// FeedbackRequest is a note from a volunteer.
type FeedbackRequest struct {
	VolunteerID   string `json:"volunteerId" validate:"required"`
	VolunteerName string `json:"volunteerName"`
	CenterID      string `json:"centerId"`
	Subject       string `json:"subject" validate:"required"`
	Message       string `json:"message" validate:"required"`
}

// FeedbackService appends volunteer feedback.
type FeedbackService struct {
	store     feedbackStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	ids       *millisIDs
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(store feedbackStore, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{store: store, validator: validate, logger: logger, now: time.Now, ids: newMillisIDs(nil)}
}

// Submit stores the feedback with a generated ID and date.
func (s *FeedbackService) Submit(ctx context.Context, req FeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "subject and message are required")
	}
	feedback := s.store.AddFeedback(ctx, models.Feedback{
		ID:            s.ids.Next(),
		VolunteerID:   normalizeVolunteerID(req.VolunteerID),
		VolunteerName: req.VolunteerName,
		CenterID:      req.CenterID,
		Subject:       req.Subject,
		Message:       req.Message,
		Date:          models.Timestamp(s.now()),
	})
	return &feedback, nil
}
