package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"voyage/internal/types"
)

func TestOpenMeteo_Current(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		assert.Equal(t, "35.01", r.URL.Query().Get("latitude"))
		_, _ = w.Write([]byte(`{"current_weather":{"temperature":12.5,"windspeed":3.1,"weathercode":3}}`))
	}))
	defer srv.Close()

	got := NewOpenMeteo(srv.URL, nil).Current(context.Background(), types.Point{Lat: 35.01, Lng: 135.76})
	assert.Equal(t, "12.5°C, code 3", got)
}

func TestOpenMeteo_FailuresAreEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") == "1" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	o := NewOpenMeteo(srv.URL, nil)
	assert.Empty(t, o.Current(context.Background(), types.Point{Lat: 1}))
	assert.Empty(t, o.Current(context.Background(), types.Point{Lat: 2}))
	assert.Empty(t, Disabled{}.Current(context.Background(), types.Point{}))
}
