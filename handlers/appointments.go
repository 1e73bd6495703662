package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicconnect/models"
	"clinicconnect/utils"
)

func (h *Handler) ListAppointments(c echo.Context) error {
	appointments, err := utils.ListAppointments(c.Request().Context(), h.db)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("listing appointments")
		flashError(c, "Could not load appointments.")
		appointments = []models.Appointment{}
	}
	return h.render(c, http.StatusOK, "appointments", models.PageData{Title: "Appointments", Appointments: appointments})
}

func (h *Handler) AddAppointmentPage(c echo.Context) error {
	options, err := utils.ListPatientOptions(c.Request().Context(), h.db)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("listing patient options")
		flashError(c, "Could not load patient list.")
		return h.redirect(c, "/appointments")
	}
	return h.render(c, http.StatusOK, "add_appointment", models.PageData{Title: "Add Appointment", Options: options})
}

func (h *Handler) AddAppointment(c echo.Context) error {
	form := models.AppointmentForm{
		PatientID: c.FormValue("patient_id"),
		Date:      c.FormValue("date"),
		Time:      c.FormValue("time"),
		Type:      c.FormValue("type"),
		Notes:     c.FormValue("notes"),
	}

	appt, err := utils.AddAppointment(c.Request().Context(), h.db, form)
	if err != nil {
		return h.fail(c, err, "/appointments/add")
	}

	h.log.Info().Int64("appointment_id", appt.ID).Str("request_id", requestID(c)).Msg("appointment added")
	h.confirmBooking(c.Request().Context(), requestID(c), appt)

	flashSuccess(c, "Appointment added successfully.")
	return h.redirect(c, "/appointments")
}

// confirmBooking mails the patient. Failures are logged and never reach the user.
func (h *Handler) confirmBooking(ctx context.Context, rid string, appt models.Appointment) {
	patient, err := utils.GetPatient(ctx, h.db, appt.PatientID)
	if err != nil {
		h.log.Warn().Err(err).Str("request_id", rid).Int64("patient_id", appt.PatientID).Msg("loading patient for confirmation mail")
		return
	}
	if err := h.mailer.AppointmentBooked(ctx, *patient, appt); err != nil {
		h.log.Warn().Err(err).Str("request_id", rid).Int64("appointment_id", appt.ID).Msg("sending confirmation mail")
	}
}
