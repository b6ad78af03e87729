package models

// AttendanceMode records how a session was captured.
type AttendanceMode string

const (
	AttendanceModeQR     AttendanceMode = "QR"
	AttendanceModeManual AttendanceMode = "MANUAL"
)

// Valid returns true when the mode is a supported value.
func (m AttendanceMode) Valid() bool {
	return m == AttendanceModeQR || m == AttendanceModeManual
}

// AttendanceRecord is one full attendance session for a center.
type AttendanceRecord struct {
	ID                string         `json:"id"`
	Date              string         `json:"date"`
	PresentStudentIDs []string       `json:"presentStudentIds"`
	Mode              AttendanceMode `json:"mode"`
	TotalStudents     int            `json:"totalStudents"`
	Updated           bool           `json:"updated,omitempty"`
	LastUpdated       string         `json:"lastUpdated,omitempty"`
}

// Clone returns a copy that shares no slices with r.
func (r AttendanceRecord) Clone() AttendanceRecord {
	r.PresentStudentIDs = append([]string(nil), r.PresentStudentIDs...)
	return r
}

// IsPresent reports whether studentID is in the present set.
func (r AttendanceRecord) IsPresent(studentID string) bool {
	for _, id := range r.PresentStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
