package maps

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"voyage/internal/types"
)

type fakePlacesAPI struct {
	geocode    []maps.GeocodingResult
	nearby     maps.PlacesSearchResponse
	err        error
	lastRadius uint
}

func (f *fakePlacesAPI) Geocode(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	return f.geocode, f.err
}

func (f *fakePlacesAPI) NearbySearch(_ context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	f.lastRadius = r.Radius
	return f.nearby, f.err
}

func TestGooglePlaces_ResolvePlace(t *testing.T) {
	api := &fakePlacesAPI{geocode: []maps.GeocodingResult{{
		Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 38.72, Lng: -9.14}},
	}}}
	r := newGooglePlacesResolver(api, nil)

	p, err := r.ResolvePlace(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, types.Point{Lat: 38.72, Lng: -9.14}, p)
}

func TestGooglePlaces_ResolvePlaceErrors(t *testing.T) {
	r := newGooglePlacesResolver(&fakePlacesAPI{}, nil)
	_, err := r.ResolvePlace(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)

	r = newGooglePlacesResolver(&fakePlacesAPI{err: errors.New("REQUEST_DENIED")}, nil)
	_, err = r.ResolvePlace(context.Background(), "Lisbon")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestGooglePlaces_NearbyPointsSortedAndLimited(t *testing.T) {
	center := types.Point{Lat: 38.7100, Lng: -9.1400}
	api := &fakePlacesAPI{nearby: maps.PlacesSearchResponse{Results: []maps.PlacesSearchResult{
		{Name: "Far", PlaceID: "f", Types: []string{"museum"}, Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 38.7300, Lng: -9.1400}}},
		{Name: "Near", PlaceID: "n", Rating: 4.5, Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 38.7105, Lng: -9.1400}}},
		{Name: "Mid", PlaceID: "m", Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 38.7200, Lng: -9.1400}}},
	}}}
	r := newGooglePlacesResolver(api, nil)

	pois, err := r.NearbyPoints(context.Background(), center, 0, 2)
	require.NoError(t, err)
	require.Len(t, pois, 2)

	assert.Equal(t, uint(DefaultRadiusMeters), api.lastRadius)
	assert.Equal(t, "Near", pois[0].Name)
	assert.InDelta(t, 55.6, pois[0].DistanceMeters, 1.0)
	require.NotNil(t, pois[0].Rating)
	assert.Equal(t, 4.5, *pois[0].Rating)
	assert.Equal(t, "Mid", pois[1].Name)
	assert.Nil(t, pois[1].Rating)
}
