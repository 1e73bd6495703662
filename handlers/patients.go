package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicconnect/models"
	"clinicconnect/utils"
)

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := utils.ListPatients(c.Request().Context(), h.db)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("listing patients")
		flashError(c, "Could not load patients.")
		patients = []models.Patient{}
	}
	return h.render(c, http.StatusOK, "patients", models.PageData{Title: "Patients", Patients: patients})
}

func (h *Handler) AddPatientPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "add_patient", models.PageData{Title: "Add Patient"})
}

func (h *Handler) AddPatient(c echo.Context) error {
	form := models.PatientForm{
		Name:  c.FormValue("name"),
		Email: c.FormValue("email"),
		Phone: c.FormValue("phone"),
		DOB:   c.FormValue("dob"),
	}

	id, err := utils.AddPatient(c.Request().Context(), h.db, form)
	if err != nil {
		return h.fail(c, err, "/patients/add")
	}

	h.log.Info().Int64("patient_id", id).Str("request_id", requestID(c)).Msg("patient added")
	flashSuccess(c, "Patient added successfully.")
	return h.redirect(c, "/patients")
}
