package models

// User is a volunteer account. Passwords are compared in plain text.
type User struct {
	VolunteerID string `json:"volunteerId"`
	Name        string `json:"name"`
	Password    string `json:"password"`
}

// UserProfile is the public view of a User.
type UserProfile struct {
	VolunteerID string `json:"volunteerId"`
	Name        string `json:"name"`
}

// Profile strips the password.
func (u User) Profile() UserProfile {
	return UserProfile{VolunteerID: u.VolunteerID, Name: u.Name}
}

// Feedback is an append-only note sent by a volunteer.
type Feedback struct {
	ID            string `json:"id"`
	VolunteerID   string `json:"volunteerId"`
	VolunteerName string `json:"volunteerName"`
	CenterID      string `json:"centerId"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	Date          string `json:"date"`
}
