package utils

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"clinicconnect/models"
)

// ListAppointments returns every appointment with its patient's name, soonest first.
func ListAppointments(ctx context.Context, db *sql.DB) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := `SELECT a.appointment_id, a.patient_id,
			CAST(a.appointment_date AS TEXT), CAST(a.appointment_time AS TEXT),
			a.appointment_type, COALESCE(a.notes, ''), p.name
		FROM appointments a
		INNER JOIN patients p ON a.patient_id = p.patient_id
		ORDER BY a.appointment_date ASC, a.appointment_time ASC`

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		a := models.Appointment{}
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Date, &a.Time, &a.Type, &a.Notes, &a.PatientName); err != nil {
			return nil, fmt.Errorf("scanning appointment row: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading appointments: %w", err)
	}
	return appointments, nil
}

// AddAppointment validates the form and stores the appointment. The patient
// reference is enforced by the foreign key, so a missing patient surfaces as
// an ordinary insert failure.
func AddAppointment(ctx context.Context, db *sql.DB, form models.AppointmentForm) (models.Appointment, error) {
	form = NormalizeAppointment(form)
	if err := ValidateAppointment(form); err != nil {
		return models.Appointment{}, err
	}

	patientID, err := strconv.ParseInt(form.PatientID, 10, 64)
	if err != nil || patientID <= 0 {
		return models.Appointment{}, &ValidationError{Problems: []string{"Please select a patient."}}
	}

	a := models.Appointment{
		PatientID: patientID,
		Date:      form.Date,
		Time:      form.Time,
		Type:      form.Type,
		Notes:     form.Notes,
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := `INSERT INTO appointments (patient_id, appointment_date, appointment_time, appointment_type, notes)
		VALUES ($1, $2, $3, $4, $5) RETURNING appointment_id`

	err = db.QueryRowContext(ctx, stmt, a.PatientID, a.Date, a.Time, a.Type, nullable(a.Notes)).Scan(&a.ID)
	if err != nil {
		return models.Appointment{}, &PersistenceError{Message: "Could not add appointment.", Err: err}
	}
	return a, nil
}
