package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"clinicconnect/models"
	"clinicconnect/utils"
)

const (
	sessionCtxKey = "session"
	tokenLength   = 32
)

const mustLogIn = "You must be logged in to access this page."

// LoadSession attaches the caller's session to the request context. A missing,
// forged or expired cookie yields an empty anonymous session.
func (h *Handler) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := &models.Session{}
		if utils.CookieExists(c.Request(), utils.SessionCookieName) {
			cookie, _ := c.Cookie(utils.SessionCookieName)
			if loaded, err := h.lookupSession(c, cookie.Value); err == nil {
				sess = loaded
			}
		}
		c.Set(sessionCtxKey, sess)
		return next(c)
	}
}

func (h *Handler) lookupSession(c echo.Context, raw string) (*models.Session, error) {
	token, err := utils.ParseSessionToken(raw, h.secret)
	if err != nil {
		h.log.Debug().Err(err).Str("request_id", requestID(c)).Msg("rejected session cookie")
		return nil, err
	}
	sess, err := h.sessions.Get(c.Request().Context(), token)
	if err != nil {
		if !errors.Is(err, utils.ErrSessionNotFound) {
			h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("loading session")
		}
		return nil, err
	}
	return sess, nil
}

// RequireAuth sends anonymous callers to the login page.
func (h *Handler) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := currentSession(c)
		if !sess.IsLoggedIn() {
			flashError(c, mustLogIn)
			return h.redirect(c, "/login")
		}

		if err := h.sessions.Touch(c.Request().Context(), sess.Token, h.ttl); err != nil {
			h.log.Warn().Err(err).Str("request_id", requestID(c)).Msg("refreshing session activity")
		} else if err := h.refreshCookie(c, sess.Token); err != nil {
			return err
		}
		return next(c)
	}
}

func currentSession(c echo.Context) *models.Session {
	if sess, ok := c.Get(sessionCtxKey).(*models.Session); ok && sess != nil {
		return sess
	}
	sess := &models.Session{}
	c.Set(sessionCtxKey, sess)
	return sess
}

func flashSuccess(c echo.Context, msgs ...string) {
	sess := currentSession(c)
	sess.Success = append(sess.Success, msgs...)
}

func flashError(c echo.Context, msgs ...string) {
	sess := currentSession(c)
	sess.Error = append(sess.Error, msgs...)
}

// saveSession persists the session, issuing a token and cookie on first save.
func (h *Handler) saveSession(c echo.Context, sess *models.Session) error {
	now := time.Now()
	if sess.Token == "" {
		token, err := utils.GenerateToken(tokenLength)
		if err != nil {
			return err
		}
		sess.Token = token
		sess.CreatedAt = now
		sess.UserAgent = utils.GetUserAgent(c.Request())
		sess.IPAddress = utils.GetIP(c.Request())

		if err := h.refreshCookie(c, token); err != nil {
			return err
		}
	}
	sess.LastActivity = now
	return h.sessions.Save(c.Request().Context(), sess, h.ttl)
}

// refreshCookie re-signs the token and restarts the browser cookie's lifetime.
func (h *Handler) refreshCookie(c echo.Context, token string) error {
	signed, err := utils.SignSessionToken(token, h.secret)
	if err != nil {
		return err
	}
	c.SetCookie(utils.SessionCookie(signed, h.ttl))
	return nil
}

func (h *Handler) redirect(c echo.Context, to string) error {
	sess := currentSession(c)
	if sess.Token != "" || sess.HasFlash() {
		if err := h.saveSession(c, sess); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, to)
}

// render fills in the identity and pending flash, then renders the page.
func (h *Handler) render(c echo.Context, status int, page string, data models.PageData) error {
	sess := currentSession(c)
	data.User = sess.User
	data.IsLoggedIn = sess.IsLoggedIn()

	if sess.HasFlash() {
		data.Success, data.Error = sess.TakeFlash()
		if sess.Token != "" {
			if err := h.saveSession(c, sess); err != nil {
				return err
			}
		}
	}
	return c.Render(status, page, data)
}

// fail turns a taxonomy error into error flashes and a redirect. Anything
// else goes to the error handler.
func (h *Handler) fail(c echo.Context, err error, to string) error {
	msgs, ok := utils.FlashMessages(err)
	if !ok {
		return err
	}

	evt := h.log.Info()
	var perr *utils.PersistenceError
	if errors.As(err, &perr) {
		evt = h.log.Error()
	}
	evt.Err(err).Str("request_id", requestID(c)).Str("path", c.Request().URL.Path).Msg("request rejected")

	flashError(c, msgs...)
	return h.redirect(c, to)
}
