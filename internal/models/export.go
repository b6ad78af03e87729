package models

import "time"

// ExportKind selects the dataset of an export.
type ExportKind string

const (
	ExportMonthlyAttendance ExportKind = "monthly_attendance"
	ExportHistory           ExportKind = "history"
	ExportPerformance       ExportKind = "performance"

	// Single-record documents, selected by ExportParams.RecordID.
	ExportAdmission         ExportKind = "admission"
	ExportAttendanceSession ExportKind = "attendance_session"
	ExportDiary             ExportKind = "diary"
	ExportPerformanceTest   ExportKind = "performance_test"
	ExportHistoryRecord     ExportKind = "history_record"
)

// SingleRecord reports whether the kind renders one stored record.
func (k ExportKind) SingleRecord() bool {
	switch k {
	case ExportAdmission, ExportAttendanceSession, ExportDiary, ExportPerformanceTest, ExportHistoryRecord:
		return true
	default:
		return false
	}
}

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv"
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ExportStatus tracks an export job.
type ExportStatus string

const (
	ExportStatusQueued   ExportStatus = "queued"
	ExportStatusRunning  ExportStatus = "running"
	ExportStatusFinished ExportStatus = "finished"
	ExportStatusFailed   ExportStatus = "failed"
)

// ExportParams describes what to export.
type ExportParams struct {
	Kind      ExportKind   `json:"kind" validate:"required,oneof=monthly_attendance history performance admission attendance_session diary performance_test history_record"`
	Format    ExportFormat `json:"format" validate:"required,oneof=csv pdf xlsx"`
	CenterID  string       `json:"centerId,omitempty"`
	Month     int          `json:"month" validate:"gte=0,lte=11"`
	Year      int          `json:"year,omitempty"`
	ClassName string       `json:"className,omitempty"`
	StudentID string       `json:"studentId,omitempty"`
	RecordID  string       `json:"recordId,omitempty"`
	Type      string       `json:"type,omitempty" validate:"omitempty,oneof=ALL Admission Attendance Diary"`
}

// ExportJob is the lifecycle record of one export.
type ExportJob struct {
	ID          string       `json:"id"`
	Params      ExportParams `json:"params"`
	Status      ExportStatus `json:"status"`
	Attempts    int          `json:"attempts"`
	ResultPath  string       `json:"-"`
	Token       string       `json:"-"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	FinishedAt  *time.Time   `json:"finishedAt,omitempty"`
	ExpiresAt   *time.Time   `json:"expiresAt,omitempty"`
	DownloadURL string       `json:"downloadUrl,omitempty"`
}
