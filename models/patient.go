package models

import "time"

type Patient struct {
	ID        int64     `db:"patient_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	DOB       string    `db:"dob"`
	CreatedAt time.Time `db:"created_at"`
}

// PatientOption is a row of the patient dropdown on the appointment form.
type PatientOption struct {
	ID   int64  `db:"patient_id"`
	Name string `db:"name"`
}
