// README: Location resolver contract shared by the OpenTripMap and Google Maps providers.
package maps

import (
	"context"
	"errors"

	"voyage/internal/types"
)

const (
	DefaultRadiusMeters = 3000
	DefaultLimit        = 12
)

var (
	ErrUpstreamUnavailable = errors.New("location service unavailable")
	ErrNotFound            = errors.New("place not found")
)

// Resolver turns a place name into coordinates and lists points of interest
// around a center. NearbyPoints returns an empty slice, not an error, when
// nothing is within the radius; results are ordered by distance.
type Resolver interface {
	ResolvePlace(ctx context.Context, name string) (types.Point, error)
	NearbyPoints(ctx context.Context, center types.Point, radiusMeters, limit int) ([]types.PointOfInterest, error)
}

// DetailsProvider looks up extended information for one point of interest.
type DetailsProvider interface {
	PlaceDetails(ctx context.Context, externalID string) (PlaceDetails, error)
}

// PlaceDetails is the extended record for a single point of interest.
type PlaceDetails struct {
	ExternalID  string      `json:"external_id"`
	Name        string      `json:"name"`
	Kinds       []string    `json:"kinds"`
	Location    types.Point `json:"location"`
	URL         string      `json:"url,omitempty"`
	Wikipedia   string      `json:"wikipedia,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
}

// Unconfigured is used when no provider credential is set. Every call fails
// with ErrUpstreamUnavailable so callers degrade instead of crashing.
type Unconfigured struct{}

func (Unconfigured) ResolvePlace(context.Context, string) (types.Point, error) {
	return types.Point{}, ErrUpstreamUnavailable
}

func (Unconfigured) NearbyPoints(context.Context, types.Point, int, int) ([]types.PointOfInterest, error) {
	return nil, ErrUpstreamUnavailable
}

func normalizeSearch(radiusMeters, limit int) (int, int) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return radiusMeters, limit
}
