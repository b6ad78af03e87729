package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/analytics"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/export"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/storage"
)

type exportSource interface {
	Students() []models.Student
	Attendance() []models.AttendanceRecord
	Diaries() []models.DiaryEntry
	Performance() []models.StudentPerformance
	PerformanceByStudent(studentID string) []models.StudentPerformance
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds datasets from analytics output and persists rendered files.
type ExportService struct {
	source    exportSource
	centers   centerLookup
	storage   fileStorage
	renderers map[models.ExportFormat]export.Renderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService. Missing renderers get the default csv, pdf and xlsx exporters.
func NewExportService(source exportSource, centers centerLookup, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, renderers map[models.ExportFormat]export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	all := map[models.ExportFormat]export.Renderer{
		models.ExportFormatCSV:  export.NewCSVExporter(),
		models.ExportFormatPDF:  export.NewPDFExporter("Pravah Volunteer Portal"),
		models.ExportFormatXLSX: export.NewXLSXExporter("Report"),
	}
	for format, r := range renderers {
		all[format] = r
	}
	return &ExportService{
		source:    source,
		centers:   centers,
		storage:   files,
		renderers: all,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate builds the dataset for the job, renders it and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	renderer, ok := s.renderers[job.Params.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	dataset, err := s.BuildDataset(job.Params)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(dataset)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.Params.Format, err)
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, fmt.Errorf("store export: %w", err)
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, fmt.Errorf("sign export: %w", err)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("export generated", zap.String("job_id", job.ID), zap.String("path", relPath), zap.Int("bytes", len(payload)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (*storage.DownloadToken, error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// BuildDataset assembles the table for params without rendering it.
func (s *ExportService) BuildDataset(params models.ExportParams) (export.Dataset, error) {
	switch params.Kind {
	case models.ExportMonthlyAttendance:
		return s.monthlyAttendanceDataset(params), nil
	case models.ExportHistory:
		return s.historyDataset(params), nil
	case models.ExportPerformance:
		return s.performanceDataset(params), nil
	case models.ExportAdmission:
		return s.admissionDataset(params)
	case models.ExportAttendanceSession:
		return s.attendanceSessionDataset(params)
	case models.ExportDiary:
		return s.diaryDataset(params)
	case models.ExportPerformanceTest:
		return s.performanceTestDataset(params)
	case models.ExportHistoryRecord:
		return s.historyRecordDataset(params)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported export kind %s", params.Kind)
	}
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	scope := job.Params.CenterID
	switch {
	case job.Params.Kind == models.ExportPerformance:
		scope = job.Params.StudentID
	case job.Params.Kind.SingleRecord():
		scope = job.Params.RecordID
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", job.Params.Kind, sanitizeFilename(scope), timestamp, shortID(job.ID), job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (s *ExportService) centerName(id string) string {
	if s.centers != nil {
		if c, ok := s.centers.Find(id); ok {
			return c.Name
		}
	}
	return id
}

func (s *ExportService) monthlyAttendanceDataset(params models.ExportParams) export.Dataset {
	className := params.ClassName
	if className == "" {
		className = models.AllClasses
	}
	report := analytics.MonthlyReport(s.source.Students(), s.source.Attendance(), models.MonthlyReportFilter{
		CenterID:  params.CenterID,
		Month:     params.Month,
		Year:      params.Year,
		ClassName: className,
	})
	rows := make([][]string, 0, len(report.StudentStats))
	for _, stat := range report.StudentStats {
		rows = append(rows, []string{stat.StudentID, stat.Name, strconv.Itoa(stat.PresentDays), formatPercent(stat.Percentage)})
	}
	return export.Dataset{
		Title: fmt.Sprintf("Monthly Attendance Report - %s %d", report.Month, report.Year),
		Summary: []string{
			"Center: " + s.centerName(params.CenterID),
			"Class: " + report.ClassName,
			fmt.Sprintf("Working days: %d", report.WorkingDays),
			fmt.Sprintf("Total students: %d", report.TotalStudents),
			"Average attendance: " + formatPercent(report.AverageAttendance) + "%",
		},
		Headers: []string{"Student ID", "Name", "Present Days", "Attendance (%)"},
		Rows:    rows,
	}
}

func (s *ExportService) historyDataset(params models.ExportParams) export.Dataset {
	items := analytics.History(s.source.Students(), s.source.Attendance(), s.source.Diaries())
	items = analytics.FilterHistory(items, params.Type)
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		updated := ""
		if item.Updated {
			updated = "Yes"
		}
		rows = append(rows, []string{item.Date, string(item.Type), item.ID, item.Details, updated})
	}
	kind := params.Type
	if kind == "" {
		kind = "ALL"
	}
	return export.Dataset{
		Title:   "Record History",
		Summary: []string{"Type: " + kind, fmt.Sprintf("Entries: %d", len(items))},
		Headers: []string{"Date", "Type", "ID", "Details", "Updated"},
		Rows:    rows,
	}
}

func (s *ExportService) performanceDataset(params models.ExportParams) export.Dataset {
	tests := s.source.PerformanceByStudent(studentKey(params.StudentID))
	name := params.StudentID
	for _, st := range s.source.Students() {
		if st.ID == studentKey(params.StudentID) {
			name = fmt.Sprintf("%s (%s)", st.Name, st.ID)
			break
		}
	}

	rows := make([][]string, 0)
	for _, test := range tests {
		for _, score := range test.Scores {
			rows = append(rows, []string{test.TestName, test.Date, score.Subject, formatScore(score.Score), score.Grade, score.Remarks})
		}
	}

	summary := []string{fmt.Sprintf("Tests: %d", len(tests))}
	if result := analytics.Performance(tests); result != nil {
		summary = append(summary, "Overall average: "+formatPercent(result.Average))
		if result.Strongest != nil {
			summary = append(summary, fmt.Sprintf("Strongest subject: %s (%s)", result.Strongest.Subject, formatPercent(result.Strongest.Avg)))
		}
		if result.Weakest != nil {
			summary = append(summary, fmt.Sprintf("Weakest subject: %s (%s)", result.Weakest.Subject, formatPercent(result.Weakest.Avg)))
		}
		if result.NeedsAttention {
			summary = append(summary, "Needs attention: marks below 40 in 3 or more tests")
		} else if result.LowMarkAlert {
			summary = append(summary, "Low mark alert: at least one mark below 40")
		}
	}

	return export.Dataset{
		Title:   "Performance Report - " + name,
		Summary: summary,
		Headers: []string{"Test", "Date", "Subject", "Score", "Grade", "Remarks"},
		Rows:    rows,
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
