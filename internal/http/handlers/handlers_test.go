package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/ai"
	"voyage/internal/http/handlers"
	"voyage/internal/http/middleware"
	"voyage/internal/maps"
	"voyage/internal/modules/export"
	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/session"
	"voyage/internal/service"
)

type recordingMailer struct {
	sent []export.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg export.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubPlanner struct{ err error }

func (s stubPlanner) Plan(context.Context, service.Session, itinerary.TripRequest) (service.PlanResult, error) {
	return service.PlanResult{}, s.err
}

type stubDetails struct {
	details maps.PlaceDetails
	err     error
}

func (s stubDetails) PlaceDetails(context.Context, string) (maps.PlaceDetails, error) {
	return s.details, s.err
}

type testEnv struct {
	router *gin.Engine
	mailer *recordingMailer
}

func newEnv(planner handlers.Planner, details maps.DetailsProvider) *testEnv {
	gin.SetMode(gin.TestMode)
	sessions := session.NewService(session.NewMemoryStore(), nil)
	mailer := &recordingMailer{}
	if planner == nil {
		planner = service.NewTripPlanner(maps.Unconfigured{}, nil, ai.Disabled{}, nil, nil, service.Options{})
	}

	itineraries := handlers.NewItineraryHandler(planner, sessions, 0)
	sess := handlers.NewSessionHandler(sessions, export.NewService(mailer, nil))
	places := handlers.NewPlacesHandler(details)

	r := gin.New()
	r.Use(middleware.Session())
	r.GET("/api/durations", itineraries.Durations)
	r.POST("/api/itineraries", itineraries.Plan)
	r.GET("/api/itineraries/current", itineraries.Current)
	r.POST("/api/itineraries/current/email", sess.Email)
	r.POST("/api/session/login", sess.Login)
	r.POST("/api/session/logout", sess.Logout)
	r.GET("/api/places/:xid", places.Details)
	return &testEnv{router: r, mailer: mailer}
}

func (e *testEnv) do(method, path, sessionID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.HeaderSessionID, sessionID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestPlan_FallbackWhenNothingConfigured(t *testing.T) {
	env := newEnv(nil, nil)
	sid := uuid.NewString()

	w := env.do(http.MethodPost, "/api/itineraries", sid, map[string]any{
		"destination": "Kyoto",
		"duration":    "1d",
		"interests":   []string{"temples", "Temples"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Itinerary itinerary.Itinerary       `json:"itinerary"`
		Stage     string                    `json:"stage"`
		Seq       uint64                    `json:"seq"`
		Request   itinerary.TripRequestView `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "fallback", res.Stage)
	assert.Equal(t, uint64(1), res.Seq)
	assert.Equal(t, []string{"temples"}, res.Request.Interests)
	require.Len(t, res.Itinerary.Stops, 5)
	assert.Equal(t, "Kyoto City Center", res.Itinerary.Stops[1].Name)

	w = env.do(http.MethodGet, "/api/itineraries/current", sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kyoto City Center")
}

func TestPlan_InvalidRequests(t *testing.T) {
	env := newEnv(nil, nil)

	w := env.do(http.MethodPost, "/api/itineraries", "", map[string]any{"destination": " ", "duration": "1d"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/itineraries", "", map[string]any{"destination": "Kyoto", "duration": "forever"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/itineraries", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlan_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrSuperseded, http.StatusConflict},
		{service.ErrNoResult, http.StatusInternalServerError},
		{errors.New("redis down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		env := newEnv(stubPlanner{err: tc.err}, nil)
		w := env.do(http.MethodPost, "/api/itineraries", "", map[string]any{"destination": "Kyoto", "duration": "1d"})
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}

func TestCurrent_NotFoundForFreshSession(t *testing.T) {
	env := newEnv(nil, nil)
	w := env.do(http.MethodGet, "/api/itineraries/current", uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newEnv(nil, nil)
	a, b := uuid.NewString(), uuid.NewString()

	w := env.do(http.MethodPost, "/api/itineraries", a, map[string]any{"destination": "Lisbon", "duration": "6h"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/itineraries/current", b, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmail_Flow(t *testing.T) {
	env := newEnv(nil, nil)
	sid := uuid.NewString()

	w := env.do(http.MethodPost, "/api/itineraries/current/email", sid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/api/itineraries", sid, map[string]any{"destination": "Kyoto", "duration": "1d"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/itineraries/current/email", sid, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/session/login", sid, map[string]any{"email": "not an address"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/session/login", sid, map[string]any{"email": "Trip@Example.com"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodPost, "/api/itineraries/current/email", sid, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "trip@example.com", env.mailer.sent[0].To)

	w = env.do(http.MethodPost, "/api/session/logout", sid, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(http.MethodPost, "/api/itineraries/current/email", sid, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEmail_DeliveryFailureIsBadGateway(t *testing.T) {
	env := newEnv(nil, nil)
	env.mailer.err = errors.New("smtp refused")
	sid := uuid.NewString()

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/itineraries", sid, map[string]any{"destination": "Kyoto", "duration": "1d"}).Code)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodPost, "/api/session/login", sid, map[string]any{"email": "a@b.co"}).Code)

	w := env.do(http.MethodPost, "/api/itineraries/current/email", sid, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDurations(t *testing.T) {
	env := newEnv(nil, nil)
	w := env.do(http.MethodGet, "/api/durations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Durations []itinerary.DurationOption `json:"durations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Durations, 6)
	assert.Equal(t, itinerary.DurationHalfDay, body.Durations[0].Value)
}

func TestPlaceDetails(t *testing.T) {
	env := newEnv(nil, stubDetails{details: maps.PlaceDetails{ExternalID: "W123", Name: "Kinkaku-ji"}})
	w := env.do(http.MethodGet, "/api/places/W123", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kinkaku-ji")

	env = newEnv(nil, stubDetails{err: maps.ErrNotFound})
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/places/W404", "", nil).Code)

	env = newEnv(nil, stubDetails{err: maps.ErrUpstreamUnavailable})
	assert.Equal(t, http.StatusBadGateway, env.do(http.MethodGet, "/api/places/W500", "", nil).Code)

	env = newEnv(nil, nil)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/places/W1", "", nil).Code)
}
