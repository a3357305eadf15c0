// README: Itinerary endpoints: plan a trip, read the current plan, list durations.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/session"
	"voyage/internal/service"
)

// Planner runs the planning pipeline for one session.
type Planner interface {
	Plan(ctx context.Context, sess service.Session, req itinerary.TripRequest) (service.PlanResult, error)
}

type ItineraryHandler struct {
	planner  Planner
	sessions *session.Service
	timeout  time.Duration
}

func NewItineraryHandler(planner Planner, sessions *session.Service, timeout time.Duration) *ItineraryHandler {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ItineraryHandler{planner: planner, sessions: sessions, timeout: timeout}
}

type planReq struct {
	Destination   string   `json:"destination"`
	Duration      string   `json:"duration"`
	Interests     []string `json:"interests"`
	IncludeSnacks bool     `json:"include_snacks"`
}

// Plan handles POST /api/itineraries.
func (h *ItineraryHandler) Plan(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	trip, err := itinerary.NewTripRequest(req.Destination, itinerary.Duration(req.Duration), req.Interests, req.IncludeSnacks)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	sc, ok := scope(c, h.sessions)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.planner.Plan(ctx, sc, trip)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

type currentResp struct {
	Itinerary itinerary.Itinerary `json:"itinerary"`
	Seq       uint64              `json:"seq"`
	SavedAt   time.Time           `json:"saved_at"`
}

// Current handles GET /api/itineraries/current.
func (h *ItineraryHandler) Current(c *gin.Context) {
	sc, ok := scope(c, h.sessions)
	if !ok {
		return
	}
	rec, found, err := sc.Record(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "no itinerary")
		return
	}
	writeJSON(c, http.StatusOK, currentResp{Itinerary: rec.Itinerary, Seq: rec.Seq, SavedAt: rec.SavedAt})
}

// Durations handles GET /api/durations.
func (h *ItineraryHandler) Durations(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"durations": itinerary.Durations()})
}
