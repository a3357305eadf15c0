// README: Open-Meteo current-weather lookup used as optional prompt context.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"voyage/internal/types"
)

const openMeteoBaseURL = "https://api.open-meteo.com"

// Service returns a short human readable summary of current conditions.
type Service interface {
	Current(ctx context.Context, at types.Point) string
}

type OpenMeteo struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewOpenMeteo(baseURL string, log *zap.Logger) *OpenMeteo {
	if baseURL == "" {
		baseURL = openMeteoBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenMeteo{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		log:     log,
	}
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current formats conditions as "12.5°C, code 3". Any failure yields "".
func (o *OpenMeteo) Current(ctx context.Context, at types.Point) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lng, 'f', -1, 64))
	q.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	resp, err := o.http.Do(req)
	if err != nil {
		o.log.Debug("weather lookup failed", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		o.log.Debug("weather lookup returned error status", zap.Int("status", resp.StatusCode))
		return ""
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil || fr.CurrentWeather == nil {
		return ""
	}
	return fmt.Sprintf("%s°C, code %d",
		strconv.FormatFloat(fr.CurrentWeather.Temperature, 'f', -1, 64), fr.CurrentWeather.WeatherCode)
}

// Disabled never reports weather.
type Disabled struct{}

func (Disabled) Current(context.Context, types.Point) string { return "" }
