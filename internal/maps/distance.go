package maps

import (
	"math"
	"sort"

	"voyage/internal/types"
)

const earthRadiusMeters = 6371000.0

// distanceMeters is the great-circle (haversine) distance between two points.
func distanceMeters(from, to types.Point) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(to.Lat - from.Lat)
	dLng := rad(to.Lng - from.Lng)
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(rad(from.Lat))*math.Cos(rad(to.Lat))*math.Pow(math.Sin(dLng/2), 2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// nearestFirst orders POIs by distance, keeping provider order for ties, and
// cuts the list to limit.
func nearestFirst(pois []types.PointOfInterest, limit int) []types.PointOfInterest {
	sort.SliceStable(pois, func(i, j int) bool { return pois[i].DistanceMeters < pois[j].DistanceMeters })
	if limit > 0 && len(pois) > limit {
		pois = pois[:limit]
	}
	return pois
}
