package utils

import (
	"context"
	"database/sql"
	"fmt"

	"clinicconnect/models"
)

// ListPatients returns every patient, newest first.
func ListPatients(ctx context.Context, db *sql.DB) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := `SELECT patient_id, name, email, COALESCE(phone, ''), CAST(dob AS TEXT), created_at
		FROM patients ORDER BY created_at DESC, patient_id DESC`

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("querying patients: %w", err)
	}
	defer rows.Close()

	patients := []models.Patient{}
	for rows.Next() {
		p := models.Patient{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.DOB, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning patient row: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading patients: %w", err)
	}
	return patients, nil
}

// ListPatientOptions returns id and name of every patient ordered by name.
func ListPatientOptions(ctx context.Context, db *sql.DB) ([]models.PatientOption, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, "SELECT patient_id, name FROM patients ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("querying patient options: %w", err)
	}
	defer rows.Close()

	options := []models.PatientOption{}
	for rows.Next() {
		o := models.PatientOption{}
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("scanning patient option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading patient options: %w", err)
	}
	return options, nil
}

func GetPatient(ctx context.Context, db *sql.DB, id int64) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := `SELECT patient_id, name, email, COALESCE(phone, ''), CAST(dob AS TEXT), created_at
		FROM patients WHERE patient_id = $1`

	p := &models.Patient{}
	err := db.QueryRowContext(ctx, stmt, id).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.DOB, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("looking up patient %d: %w", id, err)
	}
	return p, nil
}

func PatientEmailInUse(ctx context.Context, db *sql.DB, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM patients WHERE LOWER(email) = LOWER($1))", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking patient email: %w", err)
	}
	return exists, nil
}

// AddPatient validates the form, rejects a duplicate email and stores the patient.
func AddPatient(ctx context.Context, db *sql.DB, form models.PatientForm) (int64, error) {
	form = NormalizePatient(form)
	if err := ValidatePatient(form); err != nil {
		return 0, err
	}

	inUse, err := PatientEmailInUse(ctx, db, form.Email)
	if err != nil {
		return 0, &PersistenceError{Message: "Database error.", Err: err}
	}
	if inUse {
		return 0, &ConflictError{Message: "Email already registered as a patient."}
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := "INSERT INTO patients (name, email, phone, dob) VALUES ($1, $2, $3, $4) RETURNING patient_id"

	var id int64
	if err := db.QueryRowContext(ctx, stmt, form.Name, form.Email, nullable(form.Phone), form.DOB).Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			return 0, &ConflictError{Message: "Email already registered as a patient.", Err: err}
		}
		return 0, &PersistenceError{Message: "Could not add patient.", Err: err}
	}
	return id, nil
}

// nullable stores blank optional text as NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
