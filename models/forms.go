package models

// RegistrationForm is the cleaned input of the registration page.
type RegistrationForm struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Confirm   string
}

type LoginForm struct {
	Username string
	Password string
}

type PatientForm struct {
	Name  string
	Email string
	Phone string
	DOB   string
}

type AppointmentForm struct {
	PatientID string
	Date      string
	Time      string
	Type      string
	Notes     string
}
