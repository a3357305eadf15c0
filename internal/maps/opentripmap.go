// README: OpenTripMap client: geoname lookup, radius POI search and POI details.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"voyage/internal/types"
)

const openTripMapBaseURL = "https://api.opentripmap.com"

type OpenTripMapConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// OpenTripMapResolver implements Resolver and DetailsProvider.
type OpenTripMapResolver struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewOpenTripMapResolver(cfg OpenTripMapConfig, log *zap.Logger) *OpenTripMapResolver {
	if cfg.BaseURL == "" {
		cfg.BaseURL = openTripMapBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenTripMapResolver{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTPClient,
		log:     log,
	}
}

type geonameResponse struct {
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
}

func (r *OpenTripMapResolver) ResolvePlace(ctx context.Context, name string) (types.Point, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Point{}, ErrNotFound
	}

	var resp geonameResponse
	if err := r.getJSON(ctx, "/0.1/en/places/geoname", url.Values{"name": {name}}, &resp); err != nil {
		return types.Point{}, err
	}
	if (resp.Status != "" && !strings.EqualFold(resp.Status, "OK")) || resp.Lat == nil || resp.Lon == nil {
		return types.Point{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return types.Point{Lat: *resp.Lat, Lng: *resp.Lon}, nil
}

type radiusResponse struct {
	Features []struct {
		Properties struct {
			XID   string          `json:"xid"`
			Name  string          `json:"name"`
			Kinds string          `json:"kinds"`
			Dist  float64         `json:"dist"`
			Rate  json.RawMessage `json:"rate"`
		} `json:"properties"`
	} `json:"features"`
}

func (r *OpenTripMapResolver) NearbyPoints(ctx context.Context, center types.Point, radiusMeters, limit int) ([]types.PointOfInterest, error) {
	radiusMeters, limit = normalizeSearch(radiusMeters, limit)

	q := url.Values{}
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("lon", strconv.FormatFloat(center.Lng, 'f', -1, 64))
	q.Set("lat", strconv.FormatFloat(center.Lat, 'f', -1, 64))
	q.Set("limit", strconv.Itoa(limit))

	var resp radiusResponse
	if err := r.getJSON(ctx, "/0.1/en/places/radius", q, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []types.PointOfInterest{}, nil
		}
		return nil, err
	}

	pois := make([]types.PointOfInterest, 0, len(resp.Features))
	for _, f := range resp.Features {
		p := f.Properties
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = "Unnamed"
		}
		pois = append(pois, types.PointOfInterest{
			Name:           name,
			Category:       firstKind(p.Kinds),
			DistanceMeters: p.Dist,
			ExternalID:     p.XID,
			Rating:         parseRate(p.Rate),
		})
	}
	return nearestFirst(pois, limit), nil
}

type detailsResponse struct {
	XID       string `json:"xid"`
	Name      string `json:"name"`
	Kinds     string `json:"kinds"`
	URL       string `json:"url"`
	Wikipedia string `json:"wikipedia"`
	Image     string `json:"image"`
	Point     struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"point"`
	Extracts struct {
		Text string `json:"text"`
	} `json:"wikipedia_extracts"`
}

func (r *OpenTripMapResolver) PlaceDetails(ctx context.Context, xid string) (PlaceDetails, error) {
	xid = strings.TrimSpace(xid)
	if xid == "" {
		return PlaceDetails{}, ErrNotFound
	}

	var resp detailsResponse
	if err := r.getJSON(ctx, "/0.1/en/places/xid/"+url.PathEscape(xid), url.Values{}, &resp); err != nil {
		return PlaceDetails{}, err
	}
	if resp.XID == "" && resp.Name == "" {
		return PlaceDetails{}, fmt.Errorf("%w: %q", ErrNotFound, xid)
	}

	var kinds []string
	for _, k := range strings.Split(resp.Kinds, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	return PlaceDetails{
		ExternalID:  resp.XID,
		Name:        resp.Name,
		Kinds:       kinds,
		Location:    types.Point{Lat: resp.Point.Lat, Lng: resp.Point.Lon},
		URL:         resp.URL,
		Wikipedia:   resp.Wikipedia,
		Description: resp.Extracts.Text,
		Image:       resp.Image,
	}, nil
}

// getJSON performs one GET and decodes the body. Transport failures, missing
// credentials and non-2xx statuses map to ErrUpstreamUnavailable; 404 maps to
// ErrNotFound.
func (r *OpenTripMapResolver) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	if r.apiKey == "" {
		return fmt.Errorf("%w: missing opentripmap api key", ErrUpstreamUnavailable)
	}
	q.Set("apikey", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUpstreamUnavailable, err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		r.log.Warn("opentripmap request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		r.log.Warn("opentripmap returned error status", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

func firstKind(kinds string) string {
	first, _, _ := strings.Cut(kinds, ",")
	return strings.TrimSpace(first)
}

// parseRate reads OpenTripMap's rate, which is a number in GeoJSON output and
// a string such as "3h" in other formats. Zero means unrated.
func parseRate(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimRight(strings.TrimSpace(s), "h"), 64)
		if err != nil {
			return nil
		}
		f = n
	}
	if f <= 0 {
		return nil
	}
	return &f
}
