package utils

import (
	"context"
	"database/sql"
	"fmt"

	"clinicconnect/models"
)

// SearchLimit caps the rows returned by SearchAppointments.
const SearchLimit = 10

// SearchAppointments matches the query as a case-insensitive substring of the
// patient name or the appointment type.
func SearchAppointments(ctx context.Context, db *sql.DB, query string) ([]models.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := `SELECT a.appointment_id,
			CAST(a.appointment_date AS TEXT), CAST(a.appointment_time AS TEXT),
			a.appointment_type, p.name
		FROM appointments a
		INNER JOIN patients p ON a.patient_id = p.patient_id
		WHERE LOWER(p.name) LIKE LOWER($1)
			OR LOWER(a.appointment_type) LIKE LOWER($1)
		ORDER BY a.appointment_date ASC, a.appointment_time ASC
		LIMIT $2`

	rows, err := db.QueryContext(ctx, stmt, "%"+query+"%", SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching appointments: %w", err)
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		r := models.SearchResult{}
		if err := rows.Scan(&r.AppointmentID, &r.AppointmentDate, &r.AppointmentTime, &r.AppointmentType, &r.PatientName); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search rows: %w", err)
	}
	return results, nil
}
