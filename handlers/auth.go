package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicconnect/models"
	"clinicconnect/utils"
)

func (h *Handler) RegisterPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "register", models.PageData{Title: "Register"})
}

func (h *Handler) Register(c echo.Context) error {
	form := models.RegistrationForm{
		Username:  c.FormValue("username"),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Confirm:   c.FormValue("confirm"),
	}

	id, err := utils.RegisterUser(c.Request().Context(), h.db, form)
	if err != nil {
		return h.fail(c, err, "/register")
	}

	h.log.Info().Int64("user_id", id).Str("request_id", requestID(c)).Msg("account created")
	flashSuccess(c, "Account created successfully.")
	return h.redirect(c, "/login")
}

func (h *Handler) LoginPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "login", models.PageData{Title: "Login"})
}

func (h *Handler) Login(c echo.Context) error {
	form := models.LoginForm{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}

	user, err := utils.AuthenticateUser(c.Request().Context(), h.db, form)
	if err != nil {
		return h.fail(c, err, "/login")
	}

	// always start a fresh session on login
	old := currentSession(c)
	if old.Token != "" {
		if err := h.sessions.Delete(c.Request().Context(), old.Token); err != nil {
			h.log.Warn().Err(err).Str("request_id", requestID(c)).Msg("dropping pre-login session")
		}
	}
	c.Set(sessionCtxKey, &models.Session{User: user.Snapshot()})

	h.log.Info().Int64("user_id", user.ID).Str("request_id", requestID(c)).Msg("logged in")
	flashSuccess(c, "Logged in successfully.")
	return h.redirect(c, "/")
}

func (h *Handler) Logout(c echo.Context) error {
	sess := currentSession(c)
	if sess.Token != "" {
		if err := h.sessions.Delete(c.Request().Context(), sess.Token); err != nil {
			h.log.Warn().Err(err).Str("request_id", requestID(c)).Msg("deleting session")
		}
	}

	c.Set(sessionCtxKey, &models.Session{})
	c.SetCookie(utils.ExpiredSessionCookie())
	return h.redirect(c, "/login")
}
