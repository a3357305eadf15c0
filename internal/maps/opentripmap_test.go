package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/types"
)

func newOTMServer(t *testing.T, handler http.HandlerFunc) *OpenTripMapResolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenTripMapResolver(OpenTripMapConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
}

func TestOpenTripMap_ResolvePlace(t *testing.T) {
	r := newOTMServer(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/0.1/en/places/geoname", req.URL.Path)
		assert.Equal(t, "Kyoto", req.URL.Query().Get("name"))
		assert.Equal(t, "test-key", req.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(`{"name":"Kyoto","country":"JP","lat":35.02107,"lon":135.75385,"status":"OK"}`))
	})

	p, err := r.ResolvePlace(context.Background(), " Kyoto ")
	require.NoError(t, err)
	assert.Equal(t, types.Point{Lat: 35.02107, Lng: 135.75385}, p)
}

func TestOpenTripMap_ResolvePlaceNotFound(t *testing.T) {
	r := newOTMServer(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})

	_, err := r.ResolvePlace(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenTripMap_UpstreamFailures(t *testing.T) {
	r := newOTMServer(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := r.ResolvePlace(context.Background(), "Kyoto")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	_, err = r.NearbyPoints(context.Background(), types.Point{Lat: 1, Lng: 2}, 1000, 5)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestOpenTripMap_MissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) { called = true }))
	defer srv.Close()
	r := NewOpenTripMapResolver(OpenTripMapConfig{BaseURL: srv.URL}, nil)

	_, err := r.ResolvePlace(context.Background(), "Kyoto")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.False(t, called)
}

func TestOpenTripMap_NearbyPoints(t *testing.T) {
	r := newOTMServer(t, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "/0.1/en/places/radius", req.URL.Path)
		assert.Equal(t, "3000", q.Get("radius"))
		assert.Equal(t, "12", q.Get("limit"))
		assert.Equal(t, "35.02", q.Get("lat"))
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[
			{"properties":{"xid":"W2","name":"Nijo Castle","kinds":"fortifications,historic","dist":820.5,"rate":7}},
			{"properties":{"xid":"N1","name":"","kinds":"other","dist":120.1,"rate":0}},
			{"properties":{"xid":"R3","name":"Heian Shrine","kinds":"religion","dist":450,"rate":"3h"}}
		]}`))
	})

	pois, err := r.NearbyPoints(context.Background(), types.Point{Lat: 35.02, Lng: 135.75}, 0, 0)
	require.NoError(t, err)
	require.Len(t, pois, 3)

	assert.Equal(t, "Unnamed", pois[0].Name)
	assert.Nil(t, pois[0].Rating)
	assert.Equal(t, "Heian Shrine", pois[1].Name)
	require.NotNil(t, pois[1].Rating)
	assert.Equal(t, 3.0, *pois[1].Rating)
	assert.Equal(t, "Nijo Castle", pois[2].Name)
	assert.Equal(t, "fortifications", pois[2].Category)
	assert.Equal(t, "W2", pois[2].ExternalID)
}

func TestOpenTripMap_NearbyPointsEmpty(t *testing.T) {
	r := newOTMServer(t, func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	})

	pois, err := r.NearbyPoints(context.Background(), types.Point{}, 500, 3)
	require.NoError(t, err)
	assert.Empty(t, pois)
}

func TestOpenTripMap_PlaceDetails(t *testing.T) {
	r := newOTMServer(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/0.1/en/places/xid/W2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"xid":"W2","name":"Nijo Castle","kinds":"fortifications,historic",
			"point":{"lon":135.748,"lat":35.014},"wikipedia_extracts":{"text":"A flatland castle."}}`))
	})

	d, err := r.PlaceDetails(context.Background(), "W2")
	require.NoError(t, err)
	assert.Equal(t, "Nijo Castle", d.Name)
	assert.Equal(t, []string{"fortifications", "historic"}, d.Kinds)
	assert.Equal(t, "A flatland castle.", d.Description)

	_, err = r.PlaceDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
