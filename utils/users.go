package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clinicconnect/models"
)

// UserExists reports whether an account already uses the username or email.
// Emails compare case-insensitively.
func UserExists(ctx context.Context, db *sql.DB, username, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR LOWER(email) = LOWER($2))"

	var exists bool
	if err := db.QueryRowContext(ctx, stmt, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking existing user: %w", err)
	}
	return exists, nil
}

func CreateUser(ctx context.Context, db *sql.DB, u models.User) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := `INSERT INTO users (username, first_name, last_name, email, password)
		VALUES ($1, $2, $3, $4, $5) RETURNING user_id`

	var id int64
	err := db.QueryRowContext(ctx, stmt, u.Username, u.FirstName, u.LastName, u.Email, u.PasswordHash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return id, nil
}

// GetUserByUsername returns sql.ErrNoRows (wrapped) when nobody has the username.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	stmt := `SELECT user_id, username, first_name, last_name, email, password
		FROM users WHERE username = $1`

	u := &models.User{}
	err := db.QueryRowContext(ctx, stmt, username).
		Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return u, nil
}

// RegisterUser validates the form, rejects duplicates and stores the account.
func RegisterUser(ctx context.Context, db *sql.DB, form models.RegistrationForm) (int64, error) {
	form = NormalizeRegistration(form)
	if err := ValidateRegistration(form); err != nil {
		return 0, err
	}

	exists, err := UserExists(ctx, db, form.Username, form.Email)
	if err != nil {
		return 0, &PersistenceError{Message: "Database error.", Err: err}
	}
	if exists {
		return 0, &ConflictError{Message: "Username or email already registered."}
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return 0, &PersistenceError{Message: "Could not create account.", Err: err}
	}

	id, err := CreateUser(ctx, db, models.User{
		Username:     form.Username,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// lost the race against a concurrent identical registration
		if IsUniqueViolation(err) {
			return 0, &ConflictError{Message: "Could not create account.", Err: err}
		}
		return 0, &PersistenceError{Message: "Could not create account.", Err: err}
	}
	return id, nil
}

// AuthenticateUser checks the credentials. Unknown users, wrong passwords and
// lookup failures all come back as *AuthError.
func AuthenticateUser(ctx context.Context, db *sql.DB, form models.LoginForm) (*models.User, error) {
	username := Sanitize(form.Username)

	u, err := GetUserByUsername(ctx, db, username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %w", &AuthError{}, err)
		}
		return nil, &AuthError{}
	}

	if !CheckPasswordHash(form.Password, u.PasswordHash) {
		return nil, &AuthError{}
	}
	return u, nil
}
