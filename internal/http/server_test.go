package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/http/middleware"
	"voyage/internal/metrics"
	"voyage/internal/modules/export"
	"voyage/internal/modules/session"
	"voyage/internal/service"
)

func newTestServer() http.Handler {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	return NewServer(ServerDeps{
		Planner:  service.NewTripPlanner(nil, nil, nil, m, nil, service.Options{}),
		Sessions: session.NewService(session.NewMemoryStore(), nil),
		Exporter: export.NewService(export.NewLogMailer(nil), nil),
		Metrics:  m,
	}).Routes()
}

func TestHealth(t *testing.T) {
	h := newTestServer()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderSessionID))
}

func TestMetricsAfterPlan(t *testing.T) {
	h := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/itineraries",
		strings.NewReader(`{"destination":"Kyoto","duration":"3h"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `voyage_pipeline_results_total{stage="fallback"} 1`)
	assert.Contains(t, body, `voyage_upstream_failures_total{component="generator"} 1`)
	assert.Contains(t, body, `route="/api/itineraries",status="200"`)
}

func TestPlacesWithoutProvider(t *testing.T) {
	h := newTestServer()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/places/W1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
