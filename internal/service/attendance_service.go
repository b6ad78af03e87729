package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type attendanceStore interface {
	Attendance() []models.AttendanceRecord
	SaveAttendance(ctx context.Context, record models.AttendanceRecord) (models.AttendanceRecord, bool)
}

// AttendanceRequest is one captured session. A blank ID creates a new session.
type AttendanceRequest struct {
	ID                string                `json:"id"`
	Date              string                `json:"date"`
	PresentStudentIDs []string              `json:"presentStudentIds"`
	Mode              models.AttendanceMode `json:"mode" validate:"required,oneof=QR MANUAL"`
	TotalStudents     int                   `json:"totalStudents" validate:"gte=0"`
}

// AttendanceSaveResult reports the stored session and whether it replaced an existing one.
type AttendanceSaveResult struct {
	Record  models.AttendanceRecord `json:"record"`
	Updated bool                    `json:"updated"`
}

// AttendanceService records attendance sessions.
type AttendanceService struct {
	store     attendanceStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	ids       *millisIDs
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store attendanceStore, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: store, validator: validate, logger: logger, now: time.Now, ids: newMillisIDs(nil)}
}

// History returns every session in capture order.
func (s *AttendanceService) History() []models.AttendanceRecord {
	return s.store.Attendance()
}

// Save stores a session. New sessions get an ATT-{millis} ID; a missing date defaults to now.
func (s *AttendanceService) Save(ctx context.Context, req AttendanceRequest) (*AttendanceSaveResult, error) {
	req.Mode = models.AttendanceMode(strings.ToUpper(string(req.Mode)))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid attendance payload")
	}

	record := models.AttendanceRecord{
		ID:                strings.TrimSpace(req.ID),
		Date:              req.Date,
		PresentStudentIDs: dedupe(req.PresentStudentIDs),
		Mode:              req.Mode,
		TotalStudents:     req.TotalStudents,
	}
	if record.ID == "" {
		record.ID = "ATT-" + s.ids.Next()
	}
	if record.Date == "" {
		record.Date = models.Timestamp(s.now())
	}

	saved, updated := s.store.SaveAttendance(ctx, record)
	return &AttendanceSaveResult{Record: saved, Updated: updated}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
