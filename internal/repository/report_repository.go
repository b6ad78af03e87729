package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
)

// ErrExportJobNotFound is returned when no export job has the requested ID.
var ErrExportJobNotFound = errors.New("export job not found")

// ReportRepository keeps export job metadata in process memory. Jobs do not
// survive a restart; their files are swept by the cleanup loop.
type ReportRepository struct {
	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
	now  func() time.Time
}

// NewReportRepository constructs the repository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{jobs: make(map[string]*models.ExportJob), now: time.Now}
}

// Create stores a new job with generated defaults.
func (r *ReportRepository) Create(_ context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = r.now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return errors.New("export job " + job.ID + " already exists")
	}
	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

// GetByID returns a copy of the job.
func (r *ReportRepository) GetByID(_ context.Context, id string) (*models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrExportJobNotFound
	}
	copied := *job
	return &copied, nil
}

// UpdateExportJobParams defines the mutable fields; nil fields are left alone.
type UpdateExportJobParams struct {
	Status      *models.ExportStatus
	Attempts    *int
	ResultPath  *string
	Token       *string
	DownloadURL *string
	Error       *string
	FinishedAt  *time.Time
	ExpiresAt   *time.Time
}

// Update applies params to the job.
func (r *ReportRepository) Update(_ context.Context, id string, params UpdateExportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrExportJobNotFound
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Attempts != nil {
		job.Attempts = *params.Attempts
	}
	if params.ResultPath != nil {
		job.ResultPath = *params.ResultPath
	}
	if params.Token != nil {
		job.Token = *params.Token
	}
	if params.DownloadURL != nil {
		job.DownloadURL = *params.DownloadURL
	}
	if params.Error != nil {
		job.Error = *params.Error
	}
	if params.FinishedAt != nil {
		finished := *params.FinishedAt
		job.FinishedAt = &finished
	}
	if params.ExpiresAt != nil {
		expires := *params.ExpiresAt
		job.ExpiresAt = &expires
	}
	return nil
}

// ListExpired returns finished or failed jobs whose download expired before cutoff, oldest first.
func (r *ReportRepository) ListExpired(_ context.Context, cutoff time.Time) ([]models.ExportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ExportJob, 0)
	for _, job := range r.jobs {
		switch {
		case job.ExpiresAt != nil && job.ExpiresAt.Before(cutoff):
		case job.Status == models.ExportStatusFailed && job.FinishedAt != nil && job.FinishedAt.Before(cutoff):
		default:
			continue
		}
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Delete forgets a job.
func (r *ReportRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}
