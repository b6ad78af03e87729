package models

// SubjectAverage is the mean score of one subject across a student's tests.
type SubjectAverage struct {
	Subject string  `json:"subject"`
	Avg     float64 `json:"avg"`
}

// PerformanceAnalytics summarises every test of one student.
type PerformanceAnalytics struct {
	Average        float64         `json:"average"`
	Strongest      *SubjectAverage `json:"strongest,omitempty"`
	Weakest        *SubjectAverage `json:"weakest,omitempty"`
	NeedsAttention bool            `json:"needsAttention"`
	LowMarkAlert   bool            `json:"lowMarkAlert"`
}

// TrendPoint is the average score of one test.
type TrendPoint struct {
	TestID   string  `json:"testId"`
	TestName string  `json:"testName"`
	Date     string  `json:"date"`
	Average  float64 `json:"average"`
}

// MonthlyReportFilter scopes a monthly attendance report. Month is zero-based (January = 0).
type MonthlyReportFilter struct {
	CenterID  string
	Month     int
	Year      int
	ClassName string
}

// AllClasses selects every class in a monthly report.
const AllClasses = "All"

// StudentMonthlyStat is one student's line in a monthly report.
type StudentMonthlyStat struct {
	StudentID   string  `json:"studentId"`
	Name        string  `json:"name"`
	PresentDays int     `json:"presentDays"`
	Percentage  float64 `json:"percentage"`
}

// MonthlyReport is the attendance summary of a center (and class) for a month.
type MonthlyReport struct {
	Month             string               `json:"month"`
	Year              int                  `json:"year"`
	ClassName         string               `json:"className"`
	WorkingDays       int                  `json:"workingDays"`
	AverageAttendance float64              `json:"averageAttendance"`
	TotalStudents     int                  `json:"totalStudents"`
	StudentStats      []StudentMonthlyStat `json:"studentStats"`
}

// HistoryType names the record kinds merged into the history view.
type HistoryType string

const (
	HistoryAdmission  HistoryType = "Admission"
	HistoryAttendance HistoryType = "Attendance"
	HistoryDiary      HistoryType = "Diary"
)

// ParseHistoryType accepts the three kinds; anything else reports false.
func ParseHistoryType(raw string) (HistoryType, bool) {
	switch t := HistoryType(raw); t {
	case HistoryAdmission, HistoryAttendance, HistoryDiary:
		return t, true
	default:
		return "", false
	}
}

// HistoryItem is one row of the unified history.
type HistoryItem struct {
	ID      string      `json:"id"`
	Type    HistoryType `json:"type"`
	Date    string      `json:"date"`
	Details string      `json:"details"`
	Data    interface{} `json:"data"`
	Updated bool        `json:"updated"`
}
