package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"clinicconnect/models"
)

// Mailer delivers patient-facing notifications.
type Mailer interface {
	AppointmentBooked(ctx context.Context, patient models.Patient, a models.Appointment) error
}

type NopMailer struct{}

func (NopMailer) AppointmentBooked(context.Context, models.Patient, models.Appointment) error {
	return nil
}

type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, fromName, fromAddress string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

func (m *SendGridMailer) AppointmentBooked(ctx context.Context, patient models.Patient, a models.Appointment) error {
	subject := "Your appointment is booked"
	to := mail.NewEmail(patient.Name, patient.Email)
	plainTextContent, htmlContent := appointmentMessage(patient, a)

	message := mail.NewSingleEmail(m.from, subject, to, plainTextContent, htmlContent)
	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending appointment email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sending appointment email: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func appointmentMessage(patient models.Patient, a models.Appointment) (plain, body string) {
	plain = fmt.Sprintf("Hello %s, your %s appointment is booked for %s at %s.",
		patient.Name, a.Type, a.Date, a.Time)
	body = fmt.Sprintf("<p>Hello %s,</p><p>your <strong>%s</strong> appointment is booked for %s at %s.</p>",
		html.EscapeString(patient.Name), html.EscapeString(a.Type), html.EscapeString(a.Date), html.EscapeString(a.Time))
	return plain, body
}
