package utils

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError lists every rule the input broke, in form order.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, " ")
}

// ConflictError reports a uniqueness violation, found either by a pre-insert
// lookup or by the database constraint at insert time.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error { return e.Err }

// AuthError carries the same message for an unknown user and a wrong password.
type AuthError struct{}

const invalidCredentials = "Invalid username or password."

func (e *AuthError) Error() string { return invalidCredentials }

// PersistenceError wraps a store failure together with the message shown to the user.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FlashMessages turns an operation error into the notifications shown on the
// next page. ok is false for errors outside the taxonomy.
func FlashMessages(err error) (msgs []string, ok bool) {
	var (
		verr *ValidationError
		cerr *ConflictError
		aerr *AuthError
		perr *PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Problems, true
	case errors.As(err, &cerr):
		return []string{cerr.Message}, true
	case errors.As(err, &aerr):
		return []string{aerr.Error()}, true
	case errors.As(err, &perr):
		return []string{perr.Message}, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
