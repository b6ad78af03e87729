package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/analytics"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type snapshotSource interface {
	Students() []models.Student
	Attendance() []models.AttendanceRecord
	Diaries() []models.DiaryEntry
	DeleteHistoryItem(ctx context.Context, id string, kind models.HistoryType) bool
}

// AnalyticsService serves the monthly report and the unified history from store snapshots.
type AnalyticsService struct {
	store  snapshotSource
	logger *zap.Logger
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(store snapshotSource, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{store: store, logger: logger}
}

// MonthlyReport validates the filter and computes the attendance report. An empty
// class name means every class.
func (s *AnalyticsService) MonthlyReport(filter models.MonthlyReportFilter) (*models.MonthlyReport, error) {
	if filter.CenterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "centerId is required")
	}
	if filter.Month < 0 || filter.Month > 11 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 0 and 11")
	}
	if filter.Year <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year is required")
	}
	if strings.TrimSpace(filter.ClassName) == "" {
		filter.ClassName = models.AllClasses
	}
	report := analytics.MonthlyReport(s.store.Students(), s.store.Attendance(), filter)
	return &report, nil
}

// History returns the unified history, newest first, optionally limited to one type.
func (s *AnalyticsService) History(kind string) ([]models.HistoryItem, error) {
	if kind != "" && kind != "ALL" {
		if _, ok := models.ParseHistoryType(kind); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "type must be ALL, Admission, Attendance or Diary")
		}
	}
	items := analytics.History(s.store.Students(), s.store.Attendance(), s.store.Diaries())
	return analytics.FilterHistory(items, kind), nil
}

// DeleteHistoryItem removes one record from the collection named by kind.
// Unknown kinds are ignored and report false.
func (s *AnalyticsService) DeleteHistoryItem(ctx context.Context, kind, id string) bool {
	t, ok := models.ParseHistoryType(kind)
	if !ok {
		s.logger.Info("ignoring delete for unknown history type", zap.String("type", kind), zap.String("id", id))
		return false
	}
	deleted := s.store.DeleteHistoryItem(ctx, id, t)
	if deleted {
		s.logger.Info("history item deleted", zap.String("type", kind), zap.String("id", id))
	}
	return deleted
}
