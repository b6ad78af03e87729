package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/analytics"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

type performanceStore interface {
	PerformanceByStudent(studentID string) []models.StudentPerformance
	SavePerformance(ctx context.Context, perf models.StudentPerformance) (models.StudentPerformance, bool)
}

// ScoreRequest is one subject mark. Grade is always derived from Score.
type ScoreRequest struct {
	Subject string  `json:"subject" validate:"required"`
	Score   float64 `json:"score" validate:"gte=0,lte=100"`
	Remarks string  `json:"remarks"`
}

// PerformanceRequest records one test for one student.
type PerformanceRequest struct {
	ID        string         `json:"id"`
	StudentID string         `json:"studentId" validate:"required"`
	TestName  string         `json:"testName" validate:"required"`
	Date      string         `json:"date"`
	Scores    []ScoreRequest `json:"scores" validate:"required,min=1,dive"`
}

// PerformanceService records tests and derives analytics from them.
type PerformanceService struct {
	store     performanceStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	ids       *millisIDs
}

// NewPerformanceService constructs the performance service.
func NewPerformanceService(store performanceStore, validate *validator.Validate, logger *zap.Logger) *PerformanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PerformanceService{store: store, validator: validate, logger: logger, now: time.Now, ids: newMillisIDs(nil)}
}

// Save stores a test record, replacing the one with the same ID.
func (s *PerformanceService) Save(ctx context.Context, req PerformanceRequest) (*models.StudentPerformance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "scores must be between 0 and 100 and every subject named")
	}

	perf := models.StudentPerformance{
		ID:        strings.TrimSpace(req.ID),
		StudentID: studentKey(req.StudentID),
		TestName:  strings.TrimSpace(req.TestName),
		Date:      req.Date,
		Scores:    make([]models.SubjectScore, 0, len(req.Scores)),
	}
	if perf.ID == "" {
		perf.ID = s.ids.Next()
	}
	if perf.Date == "" {
		perf.Date = s.now().Format(models.DateLayout)
	}
	for _, sc := range req.Scores {
		perf.Scores = append(perf.Scores, models.SubjectScore{
			Subject: strings.TrimSpace(sc.Subject),
			Score:   sc.Score,
			Grade:   models.GradeFor(sc.Score),
			Remarks: sc.Remarks,
		})
	}

	saved, _ := s.store.SavePerformance(ctx, perf)
	return &saved, nil
}

// ByStudent returns the tests of one student.
func (s *PerformanceService) ByStudent(studentID string) []models.StudentPerformance {
	return s.store.PerformanceByStudent(studentKey(studentID))
}

// Analytics summarises a student's tests; it is nil when the student has none.
func (s *PerformanceService) Analytics(studentID string) *models.PerformanceAnalytics {
	return analytics.Performance(s.store.PerformanceByStudent(studentKey(studentID)))
}

// Trend returns per-test averages ordered by date.
func (s *PerformanceService) Trend(studentID string) []models.TrendPoint {
	return analytics.Trend(s.store.PerformanceByStudent(studentKey(studentID)))
}

// studentKey is the stored form of a student ID on both the write and read paths.
func studentKey(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
