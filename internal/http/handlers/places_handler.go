// README: Point-of-interest details lookup.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voyage/internal/maps"
)

type PlacesHandler struct {
	details maps.DetailsProvider
}

// NewPlacesHandler takes the resolver's details lookup; nil disables the
// endpoint with 404s.
func NewPlacesHandler(details maps.DetailsProvider) *PlacesHandler {
	return &PlacesHandler{details: details}
}

// Details handles GET /api/places/:xid.
func (h *PlacesHandler) Details(c *gin.Context) {
	xid := strings.TrimSpace(c.Param("xid"))
	if xid == "" || len(xid) > 64 {
		writeError(c, http.StatusBadRequest, "invalid place id")
		return
	}
	if h.details == nil {
		writeServiceError(c, maps.ErrNotFound)
		return
	}
	d, err := h.details.PlaceDetails(c.Request.Context(), xid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}
