package models

// Gender of an admitted student.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Student is one admission record. Aadhaar holds the national ID number.
type Student struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Gender             Gender `json:"gender"`
	DOB                string `json:"dob"`
	Age                int    `json:"age"`
	ClassLevel         string `json:"classLevel"`
	SchoolName         string `json:"schoolName"`
	ParentName         string `json:"parentName"`
	ParentOccupation   string `json:"parentOccupation"`
	Aadhaar            string `json:"aadhaar"`
	Contact            string `json:"contact"`
	RegistrationNumber string `json:"registrationNumber"`
	AdmissionDate      string `json:"admissionDate"`
	CenterID           string `json:"centerId"`
	AdmissionFormFile  string `json:"admissionFormFile,omitempty"`
	Updated            bool   `json:"updated,omitempty"`
	LastUpdated        string `json:"lastUpdated,omitempty"`
}

// Merge overlays the non-empty fields of next onto s.
func (s Student) Merge(next Student) Student {
	merged := s
	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&merged.ID, next.ID)
	overlay(&merged.Name, next.Name)
	if next.Gender != "" {
		merged.Gender = next.Gender
	}
	overlay(&merged.DOB, next.DOB)
	if next.Age != 0 {
		merged.Age = next.Age
	}
	overlay(&merged.ClassLevel, next.ClassLevel)
	overlay(&merged.SchoolName, next.SchoolName)
	overlay(&merged.ParentName, next.ParentName)
	overlay(&merged.ParentOccupation, next.ParentOccupation)
	overlay(&merged.Aadhaar, next.Aadhaar)
	overlay(&merged.Contact, next.Contact)
	overlay(&merged.RegistrationNumber, next.RegistrationNumber)
	overlay(&merged.AdmissionDate, next.AdmissionDate)
	overlay(&merged.CenterID, next.CenterID)
	overlay(&merged.AdmissionFormFile, next.AdmissionFormFile)
	return merged
}
