package models

// VolunteerStatus marks a volunteer present or absent in a diary entry.
type VolunteerStatus string

const (
	VolunteerPresent VolunteerStatus = "Present"
	VolunteerAbsent  VolunteerStatus = "Absent"
)

// DiaryVolunteerEntry is one volunteer's line in the daily diary.
type DiaryVolunteerEntry struct {
	VolunteerID  string          `json:"volunteerId"`
	Name         string          `json:"name"`
	InTime       string          `json:"inTime"`
	OutTime      string          `json:"outTime"`
	Status       VolunteerStatus `json:"status"`
	ClassHandled string          `json:"classHandled"`
	Subject      string          `json:"subject"`
	Topic        string          `json:"topic"`
}

// DiaryEntry is the daily log of a center session.
type DiaryEntry struct {
	ID           string                `json:"id"`
	Date         string                `json:"date"`
	StudentCount int                   `json:"studentCount"`
	InTime       string                `json:"inTime"`
	OutTime      string                `json:"outTime"`
	Thought      string                `json:"thought"`
	Volunteers   []DiaryVolunteerEntry `json:"volunteers"`
	Updated      bool                  `json:"updated,omitempty"`
	LastUpdated  string                `json:"lastUpdated,omitempty"`
}

// Clone returns a copy that shares no slices with d.
func (d DiaryEntry) Clone() DiaryEntry {
	d.Volunteers = append([]DiaryVolunteerEntry(nil), d.Volunteers...)
	return d
}
