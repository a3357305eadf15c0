// README: Itinerary domain model: trip requests, stops, and the two itinerary shapes.
package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidRequest    = errors.New("invalid trip request")
	ErrMalformedResponse = errors.New("malformed itinerary response")
)

// Duration is one of the fixed trip-length buckets offered to users.
type Duration string

const (
	DurationHalfDay   Duration = "3h"
	DurationMostOfDay Duration = "6h"
	DurationOneDay    Duration = "1d"
	DurationTwoDays   Duration = "2d"
	DurationFewDays   Duration = "3-5d"
	DurationWeek      Duration = "1w"
)

var durationLabels = map[Duration]string{
	DurationHalfDay:   "Half Day (3 hours)",
	DurationMostOfDay: "Most of Day (6 hours)",
	DurationOneDay:    "1 Day",
	DurationTwoDays:   "2 Days",
	DurationFewDays:   "3-5 Days",
	DurationWeek:      "1 Week",
}

// DurationOption pairs a duration value with its display label.
type DurationOption struct {
	Value Duration `json:"value"`
	Label string   `json:"label"`
}

// Durations lists the supported durations in display order.
func Durations() []DurationOption {
	order := []Duration{DurationHalfDay, DurationMostOfDay, DurationOneDay, DurationTwoDays, DurationFewDays, DurationWeek}
	out := make([]DurationOption, 0, len(order))
	for _, d := range order {
		out = append(out, DurationOption{Value: d, Label: durationLabels[d]})
	}
	return out
}

// Label returns the human readable name, or the raw value when unknown.
func (d Duration) Label() string {
	if l, ok := durationLabels[d]; ok {
		return l
	}
	return string(d)
}

func (d Duration) Valid() bool {
	_, ok := durationLabels[d]
	return ok
}

// TripRequest is the immutable input to one generation attempt.
type TripRequest struct {
	destination   string
	duration      Duration
	interests     []string
	includeSnacks bool
}

// NewTripRequest validates and normalizes user input.
func NewTripRequest(destination string, duration Duration, interests []string, includeSnacks bool) (TripRequest, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return TripRequest{}, fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	duration = Duration(strings.TrimSpace(string(duration)))
	if !duration.Valid() {
		return TripRequest{}, fmt.Errorf("%w: unknown duration %q", ErrInvalidRequest, duration)
	}

	seen := make(map[string]struct{}, len(interests))
	cleaned := make([]string, 0, len(interests))
	for _, tag := range interests {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, tag)
	}

	return TripRequest{
		destination:   destination,
		duration:      duration,
		interests:     cleaned,
		includeSnacks: includeSnacks,
	}, nil
}

func (r TripRequest) Destination() string { return r.destination }
func (r TripRequest) Duration() Duration  { return r.duration }
func (r TripRequest) IncludeSnacks() bool { return r.includeSnacks }

// Interests returns a copy of the interest tags.
func (r TripRequest) Interests() []string {
	out := make([]string, len(r.interests))
	copy(out, r.interests)
	return out
}

// TripRequestView is the JSON form echoed back to clients.
type TripRequestView struct {
	Destination   string   `json:"destination"`
	Duration      Duration `json:"duration"`
	DurationLabel string   `json:"duration_label"`
	Interests     []string `json:"interests"`
	IncludeSnacks bool     `json:"include_snacks"`
}

func (r TripRequest) View() TripRequestView {
	return TripRequestView{
		Destination:   r.destination,
		Duration:      r.duration,
		DurationLabel: r.duration.Label(),
		Interests:     r.Interests(),
		IncludeSnacks: r.includeSnacks,
	}
}

type StopType string

const (
	StopPlace  StopType = "place"
	StopMeal   StopType = "meal"
	StopTravel StopType = "travel"
)

// Stop is one scheduled activity, meal or travel segment.
// Time is free-form and never validated as a clock time.
type Stop struct {
	Time            string   `json:"time"`
	Name            string   `json:"name"`
	Type            StopType `json:"type,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	MapsQuery       string   `json:"maps_query,omitempty"`
	Video           string   `json:"youtube,omitempty"`
}

// UnmarshalJSON accepts duration_minutes as a number, a numeric string or null.
// Values that cannot be read as a non-negative integer are dropped rather than
// failing the whole stop.
func (s *Stop) UnmarshalJSON(data []byte) error {
	type plain Stop
	aux := struct {
		*plain
		DurationMinutes json.RawMessage `json:"duration_minutes"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.DurationMinutes = parseMinutes(aux.DurationMinutes)
	return nil
}

func parseMinutes(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f = n
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

// Minutes is a convenience constructor for Stop.DurationMinutes.
func Minutes(n int) *int { return &n }

type Shape string

const (
	ShapeStops Shape = "stops"
	ShapeText  Shape = "text"
)

// RawText keeps the generator output verbatim next to its display markup.
type RawText struct {
	Original string `json:"original"`
	Markup   string `json:"markup"`
}

// Itinerary holds exactly one of the two shapes. Build it with FromStops or
// FromText and branch on Shape before reading.
type Itinerary struct {
	Kind  Shape    `json:"shape"`
	Stops []Stop   `json:"stops"`
	Text  *RawText `json:"text,omitempty"`
}

func FromStops(stops []Stop) Itinerary {
	return Itinerary{Kind: ShapeStops, Stops: stops}
}

func FromText(original, markup string) Itinerary {
	return Itinerary{Kind: ShapeText, Text: &RawText{Original: original, Markup: markup}}
}

func (it Itinerary) Shape() Shape { return it.Kind }

// Empty reports whether the itinerary has nothing to display.
func (it Itinerary) Empty() bool {
	switch it.Kind {
	case ShapeStops:
		return len(it.Stops) == 0
	case ShapeText:
		return it.Text == nil || strings.TrimSpace(it.Text.Original) == ""
	default:
		return true
	}
}
