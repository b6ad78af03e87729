package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/repository"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/jobs"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/storage"
)

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListExpired(ctx context.Context, cutoff time.Time) ([]models.ExportJob, error)
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error)
}

type exportFiles interface {
	ParseToken(token string, allowExpired bool) (*storage.DownloadToken, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	Cleanup(ttl time.Duration) ([]string, error)
}

type exportRecorder interface {
	RecordExportJob(kind, format, status string)
}

// ReportService orchestrates export job lifecycle management.
type ReportService struct {
	repo      exportJobStore
	queue     jobDispatcher
	exporter  exportFiles
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// ReportServiceConfig governs availability and cleanup.
type ReportServiceConfig struct {
	Enabled         bool
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ExportFormat
	ExpiresAt time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo exportJobStore, queue jobDispatcher, exporter exportFiles, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		repo:      repo,
		queue:     queue,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateJob validates the request, records the job and enqueues processing.
func (s *ReportService) CreateJob(ctx context.Context, params models.ExportParams) (*models.ExportJob, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "exports are disabled")
	}
	if err := s.validateParams(params); err != nil {
		return nil, err
	}
	job := &models.ExportJob{Params: params, Status: models.ExportStatusQueued}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(params.Kind)}); err != nil {
		status := models.ExportStatusFailed
		msg := "failed to enqueue job"
		now := s.now().UTC()
		_ = s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
			Status:     &status,
			Error:      &msg,
			FinishedAt: &now,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	s.logger.Info("export queued", zap.String("job_id", job.ID), zap.String("kind", string(params.Kind)), zap.String("format", string(params.Format)))
	return job, nil
}

// GetStatus returns the job metadata.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExportJobNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// ResolveDownload validates the token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	parsed, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, parsed.ExportID)
	if err != nil {
		if errors.Is(err, repository.ErrExportJobNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.Token != token {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	file, err := s.exporter.Open(parsed.Path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ReportDownload{
		File:      file,
		Filename:  filepath.Base(parsed.Path),
		Format:    job.Params.Format,
		ExpiresAt: parsed.ExpiresAt,
	}, nil
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ReportService) cleanupExpired(ctx context.Context) {
	expired, err := s.repo.ListExpired(ctx, s.now())
	if err != nil {
		s.logger.Warn("cleanup list failed", zap.Error(err))
		return
	}
	for _, job := range expired {
		if job.ResultPath != "" {
			if err := s.exporter.Delete(job.ResultPath); err != nil {
				s.logger.Warn("cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
				continue
			}
		}
		if err := s.repo.Delete(ctx, job.ID); err != nil {
			s.logger.Warn("cleanup forget job failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	removed, err := s.exporter.Cleanup(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
		return
	}
	if len(expired) > 0 || len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("jobs", len(expired)), zap.Int("files", len(removed)))
	}
}

func (s *ReportService) validateParams(params models.ExportParams) error {
	if err := s.validator.Struct(params); err != nil {
		return appErrors.Validation(err, "unsupported export kind, format or filter")
	}
	switch params.Kind {
	case models.ExportMonthlyAttendance:
		if params.CenterID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "centerId is required for monthly attendance exports")
		}
		if params.Year <= 0 {
			return appErrors.Clone(appErrors.ErrValidation, "year is required for monthly attendance exports")
		}
	case models.ExportPerformance:
		if params.StudentID == "" {
			return appErrors.Clone(appErrors.ErrValidation, "studentId is required for performance exports")
		}
	case models.ExportHistoryRecord:
		if _, ok := models.ParseHistoryType(params.Type); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "type must be Admission, Attendance or Diary for history record exports")
		}
	}
	if params.Kind.SingleRecord() && strings.TrimSpace(params.RecordID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "recordId is required for "+string(params.Kind)+" exports")
	}
	return nil
}

// ReportWorker bridges queue jobs to ExportService.
type ReportWorker struct {
	repo     exportJobStore
	exporter exportGenerator
	metrics  exportRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo exportJobStore, exporter exportGenerator, metrics exportRecorder, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWorker{repo: repo, exporter: exporter, metrics: metrics, logger: logger, now: time.Now}
}

// Handle processes a queue job. A failed attempt leaves the job queued for the retry.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	running := models.ExportStatusRunning
	attempts := job.Attempt + 1
	if err := w.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &running, Attempts: &attempts}); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		queued := models.ExportStatusQueued
		msg := err.Error()
		if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &queued, Error: &msg}); updateErr != nil {
			w.logger.Warn("failed to mark job queued", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return err
	}

	finished := models.ExportStatusFinished
	now := w.now().UTC()
	noError := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:      &finished,
		ResultPath:  &result.RelativePath,
		Token:       &result.Token,
		DownloadURL: &result.URL,
		Error:       &noError,
		FinishedAt:  &now,
		ExpiresAt:   &result.ExpiresAt,
	}); err != nil {
		w.logger.Warn("failed to mark job finished", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}
	w.record(record, models.ExportStatusFinished)
	return nil
}

// Exhausted marks a job failed once the queue stops retrying it.
func (w *ReportWorker) Exhausted(job jobs.Job, cause error) {
	ctx := context.Background()
	failed := models.ExportStatusFailed
	msg := cause.Error()
	now := w.now().UTC()
	if err := w.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &failed, Error: &msg, FinishedAt: &now}); err != nil {
		w.logger.Warn("failed to mark job failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if record, err := w.repo.GetByID(ctx, job.ID); err == nil {
		w.record(record, models.ExportStatusFailed)
	}
}

func (w *ReportWorker) record(job *models.ExportJob, status models.ExportStatus) {
	if w.metrics == nil {
		return
	}
	w.metrics.RecordExportJob(string(job.Params.Kind), string(job.Params.Format), string(status))
}
