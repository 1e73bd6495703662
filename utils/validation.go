package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"clinicconnect/models"
)

var (
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	markup     = regexp.MustCompile(`<[^>]*>`)

	uppercase   = regexp.MustCompile(`[A-Z]`)
	lowercase   = regexp.MustCompile(`[a-z]`)
	digit       = regexp.MustCompile(`\d`)
	specialChar = regexp.MustCompile(`[\W_]`)
)

const PasswordRule = "Password must be 8+ chars, include upper, lower, number and special character."

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidEmail checks the basic local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// ValidPassword enforces the account password policy.
func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= 8 &&
		uppercase.MatchString(password) &&
		lowercase.MatchString(password) &&
		digit.MatchString(password) &&
		specialChar.MatchString(password)
}

func SamePassword(password string, confirmedPassword string) bool {
	return password == confirmedPassword
}

// Sanitize strips markup and control characters and trims surrounding space.
func Sanitize(input string) string {
	input = markup.ReplaceAllString(input, "")

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func NormalizeRegistration(f models.RegistrationForm) models.RegistrationForm {
	f.Username = Sanitize(f.Username)
	f.FirstName = Sanitize(f.FirstName)
	f.LastName = Sanitize(f.LastName)
	f.Email = Sanitize(f.Email)
	return f
}

func ValidateRegistration(f models.RegistrationForm) error {
	var problems []string
	if f.Username == "" {
		problems = append(problems, "Username is required.")
	}
	if f.FirstName == "" {
		problems = append(problems, "First name is required.")
	}
	if f.LastName == "" {
		problems = append(problems, "Last name is required.")
	}
	if f.Email == "" {
		problems = append(problems, "Email is required.")
	} else if !ValidEmail(f.Email) {
		problems = append(problems, "Invalid email format.")
	}
	if !ValidPassword(f.Password) {
		problems = append(problems, PasswordRule)
	}
	if !SamePassword(f.Password, f.Confirm) {
		problems = append(problems, "Passwords do not match.")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func NormalizePatient(f models.PatientForm) models.PatientForm {
	f.Name = Sanitize(f.Name)
	f.Email = Sanitize(f.Email)
	f.Phone = Sanitize(f.Phone)
	f.DOB = strings.TrimSpace(f.DOB)
	return f
}

func ValidatePatient(f models.PatientForm) error {
	var problems []string
	if f.Name == "" {
		problems = append(problems, "Name is required.")
	}
	if f.Email == "" {
		problems = append(problems, "Email is required.")
	} else if !ValidEmail(f.Email) {
		problems = append(problems, "Invalid email format.")
	}
	if f.DOB == "" {
		problems = append(problems, "Date of birth is required.")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func NormalizeAppointment(f models.AppointmentForm) models.AppointmentForm {
	f.PatientID = strings.TrimSpace(f.PatientID)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Type = strings.TrimSpace(f.Type)
	f.Notes = Sanitize(f.Notes)
	return f
}

func ValidateAppointment(f models.AppointmentForm) error {
	var problems []string
	if f.PatientID == "" {
		problems = append(problems, "Please select a patient.")
	}
	if f.Date == "" {
		problems = append(problems, "Appointment date is required.")
	}
	if f.Time == "" {
		problems = append(problems, "Appointment time is required.")
	}
	if f.Type == "" {
		problems = append(problems, "Appointment type is required.")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
