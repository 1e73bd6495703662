// Package testutil provides a migrated in-memory database for package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"clinicconnect/models"
	"clinicconnect/utils"
)

// OpenDB opens a fresh in-memory SQLite database with the schema applied.
// It is closed when the test ends.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	// shared cache keeps the schema alive across pooled connections
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := utils.Migrate(db, utils.DialectSQLite, zerolog.Nop()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SeedPatient inserts a valid patient and returns its id.
func SeedPatient(t *testing.T, db *sql.DB, name, email string) int64 {
	t.Helper()
	id, err := utils.AddPatient(context.Background(), db, models.PatientForm{
		Name:  name,
		Email: email,
		DOB:   "1985-06-15",
	})
	if err != nil {
		t.Fatalf("seed patient %s: %v", name, err)
	}
	return id
}
