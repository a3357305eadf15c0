package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/modules/itinerary"
	"voyage/internal/types"
)

func mustRequest(t *testing.T, dest string, d itinerary.Duration, interests []string, snacks bool) itinerary.TripRequest {
	t.Helper()
	req, err := itinerary.NewTripRequest(dest, d, interests, snacks)
	require.NoError(t, err)
	return req
}

func TestBuildPrompt_Contract(t *testing.T) {
	p := BuildPrompt(mustRequest(t, "Kyoto", itinerary.DurationOneDay, []string{"temples", "food"}, false), PromptHints{})

	assert.NotEmpty(t, p.System)
	assert.Contains(t, p.User, "Plan a 1 Day trip to Kyoto.")
	assert.Contains(t, p.User, "Interests: temples, food.")
	for _, field := range []string{`"time"`, `"name"`, `"type"`, `"duration_minutes"`, `"notes"`, `"maps_query"`, `"youtube"`} {
		assert.Contains(t, p.User, field)
	}
	assert.Contains(t, p.User, "breakfast, lunch and dinner")
	assert.Contains(t, p.User, "Do not add a snack break.")
	assert.Contains(t, p.User, "Return ONLY a JSON array")
	assert.Contains(t, p.User, "plain-text plan")
	assert.NotContains(t, p.User, "Day 2 09:00")
}

func TestBuildPrompt_SnacksAndMultiDay(t *testing.T) {
	p := BuildPrompt(mustRequest(t, "Lisbon", itinerary.DurationFewDays, nil, true), PromptHints{})

	assert.Contains(t, p.User, "Include one snack break")
	assert.NotContains(t, p.User, "Do not add a snack break.")
	assert.Contains(t, p.User, "Interests: general sightseeing.")
	assert.Contains(t, p.User, "Day 2 09:00")
}

func TestBuildPrompt_Hints(t *testing.T) {
	pois := make([]types.PointOfInterest, 0, 10)
	for i := 0; i < 10; i++ {
		pois = append(pois, types.PointOfInterest{Name: "POI" + string(rune('A'+i)), Category: "museums"})
	}
	hints := PromptHints{Center: &types.Point{Lat: 35.0116, Lng: 135.7681}, POIs: pois, Weather: "12.5°C, code 3"}

	p := BuildPrompt(mustRequest(t, "Kyoto", itinerary.DurationHalfDay, nil, false), hints)

	assert.Contains(t, p.User, "Destination coordinates: 35.01160, 135.76810.")
	assert.Contains(t, p.User, "Current weather: 12.5°C, code 3.")
	assert.Contains(t, p.User, "- POIA (museums)")
	assert.Equal(t, maxPromptPOIs, strings.Count(p.User, "(museums)"))
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := mustRequest(t, "Oslo", itinerary.DurationWeek, []string{"hiking"}, true)
	assert.Equal(t, BuildPrompt(req, PromptHints{}), BuildPrompt(req, PromptHints{}))
}
