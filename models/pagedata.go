package models

type PageData struct {
	Title        string
	User         *SessionUser
	IsLoggedIn   bool
	Success      []string
	Error        []string
	Patients     []Patient
	Options      []PatientOption
	Appointments []Appointment
}
