package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"clinicconnect/models"
)

func (h *Handler) Home(c echo.Context) error {
	return h.render(c, http.StatusOK, "home", models.PageData{Title: "Home"})
}

func (h *Handler) About(c echo.Context) error {
	return h.render(c, http.StatusOK, "about", models.PageData{Title: "About"})
}

// Health reports whether the database and the session store answer.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"database": "ok", "sessions": "ok"}
	healthy := true
	if err := h.db.PingContext(ctx); err != nil {
		h.log.Error().Err(err).Msg("health: database ping failed")
		checks["database"] = "unavailable"
		healthy = false
	}
	if err := h.sessions.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("health: session store ping failed")
		checks["sessions"] = "unavailable"
		healthy = false
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": checks})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "checks": checks})
}

// ErrorHandler renders the 404 page for unknown routes and the 500 page for
// everything else. The detail of a 500 is only logged.
func (h *Handler) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
		status = http.StatusNotFound
	}

	page, title := "error_500", "Server Error"
	if status == http.StatusNotFound {
		page, title = "error_404", "Page Not Found"
	} else {
		h.log.Error().Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = h.render(c, status, page, models.PageData{Title: title})
	}
	if err != nil {
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("rendering error page")
		_ = c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}
