package models

type Appointment struct {
	ID          int64  `db:"appointment_id"`
	PatientID   int64  `db:"patient_id"`
	Date        string `db:"appointment_date"`
	Time        string `db:"appointment_time"`
	Type        string `db:"appointment_type"`
	Notes       string `db:"notes"`
	PatientName string `db:"patient_name"`
}

// SearchResult is one row of the live search response.
type SearchResult struct {
	AppointmentID   int64  `json:"appointment_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	AppointmentType string `json:"appointment_type"`
	PatientName     string `json:"patient_name"`
}
