// README: TTL cache in front of a Resolver; failures are never cached.
package maps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"voyage/internal/types"
)

type CachedResolver struct {
	next  Resolver
	cache *cache.Cache
}

func NewCachedResolver(next Resolver, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedResolver{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *CachedResolver) ResolvePlace(ctx context.Context, name string) (types.Point, error) {
	key := "place:" + strings.ToLower(strings.TrimSpace(name))
	if v, ok := c.cache.Get(key); ok {
		return v.(types.Point), nil
	}
	p, err := c.next.ResolvePlace(ctx, name)
	if err != nil {
		return p, err
	}
	c.cache.SetDefault(key, p)
	return p, nil
}

func (c *CachedResolver) NearbyPoints(ctx context.Context, center types.Point, radiusMeters, limit int) ([]types.PointOfInterest, error) {
	radiusMeters, limit = normalizeSearch(radiusMeters, limit)
	key := fmt.Sprintf("nearby:%.4f,%.4f:%d:%d", center.Lat, center.Lng, radiusMeters, limit)
	if v, ok := c.cache.Get(key); ok {
		return clonePOIs(v.([]types.PointOfInterest)), nil
	}
	pois, err := c.next.NearbyPoints(ctx, center, radiusMeters, limit)
	if err != nil {
		return pois, err
	}
	c.cache.SetDefault(key, clonePOIs(pois))
	return pois, nil
}

// PlaceDetails delegates when the wrapped resolver supports details.
func (c *CachedResolver) PlaceDetails(ctx context.Context, xid string) (PlaceDetails, error) {
	dp, ok := c.next.(DetailsProvider)
	if !ok {
		return PlaceDetails{}, ErrNotFound
	}
	key := "details:" + xid
	if v, ok := c.cache.Get(key); ok {
		return v.(PlaceDetails), nil
	}
	d, err := dp.PlaceDetails(ctx, xid)
	if err != nil {
		return d, err
	}
	c.cache.SetDefault(key, d)
	return d, nil
}

func clonePOIs(in []types.PointOfInterest) []types.PointOfInterest {
	out := make([]types.PointOfInterest, len(in))
	copy(out, in)
	return out
}
