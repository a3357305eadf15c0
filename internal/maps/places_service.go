// README: Google Maps backed resolver (Geocoding + Places Nearby Search).
package maps

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"voyage/internal/types"
)

// placesAPI is the slice of *maps.Client the resolver uses.
type placesAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

// GooglePlacesResolver implements Resolver with the Google Maps web services.
type GooglePlacesResolver struct {
	client placesAPI
	log    *zap.Logger
}

// NewGooglePlacesResolver creates a resolver with the given API key.
func NewGooglePlacesResolver(apiKey string, log *zap.Logger) (*GooglePlacesResolver, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newGooglePlacesResolver(client, log), nil
}

func newGooglePlacesResolver(client placesAPI, log *zap.Logger) *GooglePlacesResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &GooglePlacesResolver{client: client, log: log}
}

func (s *GooglePlacesResolver) ResolvePlace(ctx context.Context, name string) (types.Point, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Point{}, ErrNotFound
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: name})
	if err != nil {
		s.log.Warn("geocoding failed", zap.String("name", name), zap.Error(err))
		return types.Point{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(results) == 0 {
		return types.Point{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

func (s *GooglePlacesResolver) NearbyPoints(ctx context.Context, center types.Point, radiusMeters, limit int) ([]types.PointOfInterest, error) {
	radiusMeters, limit = normalizeSearch(radiusMeters, limit)

	resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: center.Lat, Lng: center.Lng},
		Radius:   uint(radiusMeters),
	})
	if err != nil {
		s.log.Warn("nearby search failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	pois := make([]types.PointOfInterest, 0, len(resp.Results))
	for _, result := range resp.Results {
		loc := result.Geometry.Location
		var category string
		if len(result.Types) > 0 {
			category = result.Types[0]
		}
		var rating *float64
		if result.Rating > 0 {
			r := float64(result.Rating)
			rating = &r
		}
		pois = append(pois, types.PointOfInterest{
			Name:           result.Name,
			Category:       category,
			DistanceMeters: distanceMeters(center, types.Point{Lat: loc.Lat, Lng: loc.Lng}),
			ExternalID:     result.PlaceID,
			Rating:         rating,
		})
	}

	return nearestFirst(pois, limit), nil
}
