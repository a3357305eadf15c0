// README: Base handler utilities (JSON helpers, session scope lookup, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyage/internal/http/middleware"
	"voyage/internal/maps"
	"voyage/internal/modules/export"
	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/session"
	"voyage/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors to status codes. Unknown errors are
// reported as 500 without their text.
func writeServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, itinerary.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidIdentity),
		errors.Is(err, session.ErrInvalidSession):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, export.ErrNotLoggedIn):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, export.ErrNoItinerary), errors.Is(err, maps.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSuperseded):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, export.ErrDelivery), errors.Is(err, maps.ErrUpstreamUnavailable):
		writeError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, service.ErrNoResult):
		writeError(c, http.StatusInternalServerError, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// scope resolves the caller's session scope from the id set by middleware.Session.
func scope(c *gin.Context, sessions *session.Service) (*session.Scope, bool) {
	sc, err := sessions.Scope(middleware.SessionID(c))
	if err != nil {
		writeServiceError(c, err)
		return nil, false
	}
	return sc, true
}
