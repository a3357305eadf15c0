// README: Shared geographic value objects used by the resolver, prompt and fallback.
package types

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PointOfInterest is one nearby place returned by a location resolver.
// Rating is nil when the upstream does not rate the place.
type PointOfInterest struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	DistanceMeters float64  `json:"distance_meters"`
	ExternalID     string   `json:"external_id"`
	Rating         *float64 `json:"rating,omitempty"`
}
