package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicconnect/models"
	"clinicconnect/utils"
)

func (h *Handler) SearchPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "search", models.PageData{Title: "Search"})
}

// SearchAPI answers the live search box. Store failures come back as an
// empty list so the page keeps working.
func (h *Handler) SearchAPI(c echo.Context) error {
	results, err := utils.SearchAppointments(c.Request().Context(), h.db, c.QueryParam("query"))
	if err != nil {
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("searching appointments")
		results = []models.SearchResult{}
	}
	return c.JSON(http.StatusOK, results)
}
