package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/repository"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/storage"
)

func newTestExportService(t *testing.T, store *repository.RecordsStore) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(store, testCenters(), files, signer, ExportConfig{APIPrefix: "/api/v1/"}, nil, nil)
	svc.now = fixedNow
	return svc, files
}

func seededStore(t *testing.T) *repository.RecordsStore {
	t.Helper()
	store := newTestRecords(t)
	ctx := context.Background()
	store.SaveStudent(ctx, models.Student{ID: "S1", Name: "Asha", CenterID: "MDA-01", ClassLevel: "5", AdmissionDate: "2025-05-01"})
	store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-1", Date: "2025-05-05T09:00:00Z", PresentStudentIDs: []string{"S1"}, Mode: "QR"})
	store.SavePerformance(ctx, models.StudentPerformance{
		ID: "P1", StudentID: "S1", TestName: "Unit 1", Date: "2025-05-10",
		Scores: []models.SubjectScore{{Subject: "Maths", Score: 88, Grade: "A"}},
	})
	return store
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, files := newTestExportService(t, seededStore(t))
	job := &models.ExportJob{
		ID:     "0f9a1c2e-1111-2222-3333-444455556666",
		Params: models.ExportParams{Kind: models.ExportMonthlyAttendance, Format: models.ExportFormatCSV, CenterID: "MDA-01", Month: 4, Year: 2025},
	}

	res, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "monthly_attendance_MDA-01_20250601_103000_0f9a1c2e.csv", res.RelativePath)
	assert.Equal(t, "/api/v1/exports/download/"+res.Token, res.URL)

	token, err := svc.ParseToken(res.Token, false)
	require.NoError(t, err)
	assert.Equal(t, job.ID, token.ExportID)
	assert.Equal(t, res.RelativePath, token.Path)

	data, err := files.Read(res.RelativePath)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"S1", "Asha", "1", "100.00"})
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _ := newTestExportService(t, seededStore(t))

	_, err := svc.Generate(context.Background(), &models.ExportJob{ID: "x", Params: models.ExportParams{Kind: models.ExportHistory, Format: "docx"}})
	assert.Error(t, err)

	_, err = svc.BuildDataset(models.ExportParams{Kind: "grades"})
	assert.Error(t, err)
}

func TestExportServicePerformanceDataset(t *testing.T) {
	svc, _ := newTestExportService(t, seededStore(t))

	ds, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportPerformance, StudentID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, "Performance Report - Asha (S1)", ds.Title)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, []string{"Unit 1", "2025-05-10", "Maths", "88", "A", ""}, ds.Rows[0])
	assert.Contains(t, ds.Summary, "Overall average: 88.00")
}

func TestExportServiceHistoryDataset(t *testing.T) {
	svc, _ := newTestExportService(t, seededStore(t))

	ds, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportHistory, Type: "Admission"})
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "S1", ds.Rows[0][2])
	assert.Equal(t, "Type: Admission", ds.Summary[0])
}

func documentStore(t *testing.T) *repository.RecordsStore {
	t.Helper()
	store := seededStore(t)
	ctx := context.Background()
	store.SaveStudent(ctx, models.Student{ID: "S2", Name: "Bilal", CenterID: "MDA-01", ClassLevel: "6", Aadhaar: "-"})
	store.SaveStudent(ctx, models.Student{ID: "S3", Name: "Chitra", CenterID: "NGP-01", ClassLevel: "5"})
	store.SaveAttendance(ctx, models.AttendanceRecord{ID: "ATT-2", Date: "2025-05-06T09:00:00Z", PresentStudentIDs: []string{"S2"}, Mode: "MANUAL", TotalStudents: 3})
	store.SaveDiary(ctx, models.DiaryEntry{
		ID: "D1", Date: "2025-05-06", StudentCount: 12, InTime: "16:00", OutTime: "18:00",
		Volunteers: []models.DiaryVolunteerEntry{
			{VolunteerID: "25MDA177", Name: "Demo", Status: models.VolunteerPresent, ClassHandled: "5", Subject: "Maths", Topic: "Fractions"},
			{VolunteerID: "25MDA180", Name: "Kiran", Status: models.VolunteerAbsent, ClassHandled: "6", Subject: "English"},
		},
	})
	return store
}

func TestExportServiceAdmissionDocument(t *testing.T) {
	svc, _ := newTestExportService(t, documentStore(t))

	ds, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportAdmission, RecordID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "Admission Form", ds.Title)
	assert.Equal(t, []string{"Field", "Value"}, ds.Headers)
	assert.Contains(t, ds.Rows, []string{"Full Name", "Asha"})
	assert.Contains(t, ds.Rows, []string{"Registration No.", "-"})
	assert.Contains(t, ds.Summary, "Center: Pravah Centre Madhapur")

	_, err = svc.BuildDataset(models.ExportParams{Kind: models.ExportAdmission, RecordID: "missing"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestExportServiceAttendanceSessionDocument(t *testing.T) {
	svc, _ := newTestExportService(t, documentStore(t))

	ds, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportAttendanceSession, RecordID: "ATT-2", CenterID: "MDA-01"})
	require.NoError(t, err)
	assert.Equal(t, "Attendance Report", ds.Title)
	assert.Equal(t, []string{"Date: 2025-05-06", "Mode: MANUAL", "Total Students: 3", "Present: 1 (33%)"}, ds.Summary)
	assert.Equal(t, [][]string{
		{"1", "Asha", "5", "S1", "Absent"},
		{"2", "Bilal", "6", "S2", "Present"},
	}, ds.Rows)

	all, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportAttendanceSession, RecordID: "ATT-2"})
	require.NoError(t, err)
	assert.Len(t, all.Rows, 3)
}

func TestExportServiceDiaryDocument(t *testing.T) {
	svc, files := newTestExportService(t, documentStore(t))

	ds, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportDiary, RecordID: "D1"})
	require.NoError(t, err)
	assert.Equal(t, "Diary Log", ds.Title)
	assert.Contains(t, ds.Summary, "Center Timing: 16:00 - 18:00")
	assert.Contains(t, ds.Summary, "Thought of the Day: -")
	assert.Equal(t, []string{"25MDA177", "Demo", "Present", "5", "Maths (Fractions)"}, ds.Rows[0])
	assert.Equal(t, []string{"25MDA180", "Kiran", "Absent", "6", "English"}, ds.Rows[1])

	for format, magic := range map[models.ExportFormat]string{models.ExportFormatPDF: "%PDF", models.ExportFormatXLSX: "PK"} {
		job := &models.ExportJob{ID: "d1a2b3c4-0000", Params: models.ExportParams{Kind: models.ExportDiary, Format: format, RecordID: "D1"}}
		res, err := svc.Generate(context.Background(), job)
		require.NoError(t, err)
		assert.Equal(t, "diary_D1_20250601_103000_d1a2b3c4."+string(format), res.RelativePath)

		data, err := files.Read(res.RelativePath)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte(magic)), "format %s", format)
	}
}

func TestExportServicePerformanceTestDocument(t *testing.T) {
	store := documentStore(t)
	store.SavePerformance(context.Background(), models.StudentPerformance{
		ID: "P2", StudentID: "S1", TestName: "Unit 2", Date: "2025-05-20",
		Scores: []models.SubjectScore{{Subject: "Maths", Score: 60, Grade: "C"}, {Subject: "Science", Score: 70, Grade: "B", Remarks: "steady"}},
	})
	svc, _ := newTestExportService(t, store)

	ds, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportPerformanceTest, RecordID: "P2"})
	require.NoError(t, err)
	assert.Equal(t, "Performance Report - Unit 2", ds.Title)
	assert.Equal(t, [][]string{{"Maths", "60", "C", ""}, {"Science", "70", "B", "steady"}}, ds.Rows)
	assert.Contains(t, ds.Summary, "Student: Asha (S1)")
	assert.Contains(t, ds.Summary, "Test average: 65.00")
	assert.Contains(t, ds.Summary, "Overall average: 72.67")
}

func TestExportServiceHistoryRecordDocument(t *testing.T) {
	svc, _ := newTestExportService(t, documentStore(t))

	ds, err := svc.BuildDataset(models.ExportParams{Kind: models.ExportHistoryRecord, Type: "Attendance", RecordID: "ATT-2"})
	require.NoError(t, err)
	assert.Equal(t, "History Record - Attendance", ds.Title)
	assert.Contains(t, ds.Summary, "Summary: 3 Students Present (MANUAL)")
	assert.Contains(t, ds.Rows, []string{"mode", "MANUAL"})
	assert.Contains(t, ds.Rows, []string{"totalStudents", "3"})
	for _, row := range ds.Rows {
		assert.NotEqual(t, "presentStudentIds", row[0])
	}

	_, err = svc.BuildDataset(models.ExportParams{Kind: models.ExportHistoryRecord, Type: "Diary", RecordID: "ATT-2"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "all", sanitizeFilename(""))
	assert.Equal(t, "a_b-c-d", sanitizeFilename("a b/c:d"))
}
