package models

// SyllabusProgress is the completion percentage of one subject for a class in a week.
type SyllabusProgress struct {
	ID          string  `json:"id"`
	CenterID    string  `json:"centerId"`
	Week        string  `json:"week"`
	ClassName   string  `json:"className"`
	Subject     string  `json:"subject"`
	Percentage  float64 `json:"percentage"`
	LastUpdated string  `json:"lastUpdated"`
}

// SyllabusKey identifies the upsert slot of a progress entry.
type SyllabusKey struct {
	CenterID  string
	Week      string
	ClassName string
	Subject   string
}

// Key returns the composite key of p.
func (p SyllabusProgress) Key() SyllabusKey {
	return SyllabusKey{CenterID: p.CenterID, Week: p.Week, ClassName: p.ClassName, Subject: p.Subject}
}
