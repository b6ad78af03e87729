package models

// SubjectScore is one subject's mark within a test.
type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
	Grade   string  `json:"grade"`
	Remarks string  `json:"remarks,omitempty"`
}

// StudentPerformance is one test taken by one student.
type StudentPerformance struct {
	ID        string         `json:"id"`
	StudentID string         `json:"studentId"`
	TestName  string         `json:"testName"`
	Date      string         `json:"date"`
	Scores    []SubjectScore `json:"scores"`
}

// Clone returns a copy that shares no slices with p.
func (p StudentPerformance) Clone() StudentPerformance {
	p.Scores = append([]SubjectScore(nil), p.Scores...)
	return p
}

// LowMarkThreshold is the score below which a mark is flagged.
const LowMarkThreshold = 40

// GradeFor maps a 0-100 score onto the letter grade scale.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	case score >= LowMarkThreshold:
		return "D"
	default:
		return "F"
	}
}
