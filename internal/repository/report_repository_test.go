package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
)

func TestReportRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()

	job := &models.ExportJob{Params: models.ExportParams{Kind: models.ExportHistory, Format: models.ExportFormatCSV}}
	require.NoError(t, repo.Create(ctx, job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	status := models.ExportStatusFinished
	path := "history.csv"
	expires := time.Now().Add(time.Hour)
	require.NoError(t, repo.Update(ctx, job.ID, UpdateExportJobParams{Status: &status, ResultPath: &path, ExpiresAt: &expires}))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, stored.Status)
	assert.Equal(t, "history.csv", stored.ResultPath)
	require.NotNil(t, stored.ExpiresAt)

	stored.Status = models.ExportStatusFailed
	again, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, again.Status)

	require.NoError(t, repo.Delete(ctx, job.ID))
	_, err = repo.GetByID(ctx, job.ID)
	assert.ErrorIs(t, err, ErrExportJobNotFound)
	assert.ErrorIs(t, repo.Update(ctx, job.ID, UpdateExportJobParams{}), ErrExportJobNotFound)
}

func TestReportRepositoryCreateRejectsDuplicateID(t *testing.T) {
	repo := NewReportRepository()
	require.NoError(t, repo.Create(context.Background(), &models.ExportJob{ID: "a"}))
	assert.Error(t, repo.Create(context.Background(), &models.ExportJob{ID: "a"}))
}

func TestReportRepositoryListExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	failed := models.ExportStatusFailed

	require.NoError(t, repo.Create(ctx, &models.ExportJob{ID: "expired", CreatedAt: now.Add(-3 * time.Hour)}))
	require.NoError(t, repo.Update(ctx, "expired", UpdateExportJobParams{ExpiresAt: &past}))
	require.NoError(t, repo.Create(ctx, &models.ExportJob{ID: "fresh", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, repo.Update(ctx, "fresh", UpdateExportJobParams{ExpiresAt: &future}))
	require.NoError(t, repo.Create(ctx, &models.ExportJob{ID: "failed", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Update(ctx, "failed", UpdateExportJobParams{Status: &failed, FinishedAt: &past}))
	require.NoError(t, repo.Create(ctx, &models.ExportJob{ID: "queued"}))

	expired, err := repo.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, "expired", expired[0].ID)
	assert.Equal(t, "failed", expired[1].ID)
}
