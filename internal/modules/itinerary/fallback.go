// README: Deterministic five-stop itinerary used when generation yields nothing usable.
package itinerary

import (
	"strings"

	"voyage/internal/types"
)

// Synthesize builds breakfast, a primary attraction, lunch, a hidden gem and
// dinner around the destination. Attractions take their names from the first
// two usable points of interest and fall back to placeholders. The result
// depends only on its inputs.
func Synthesize(destination string, pois []types.PointOfInterest) Itinerary {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		destination = "the city"
	}
	named := usablePOIs(pois, 2)

	primary := attractionStop(destination, named, 0, destination+" City Center", "attractions",
		"Start with the best-known sights of "+destination+".")
	primary.Time = "10:00"
	primary.DurationMinutes = Minutes(120)

	gem := attractionStop(destination, named, 1, "Hidden gem of "+destination, "hidden gem",
		"A quieter spot locals recommend.")
	gem.Time = "15:00"
	gem.DurationMinutes = Minutes(90)

	return FromStops([]Stop{
		mealStop("08:00", "Breakfast", destination, "breakfast", 60, "Try a local cafe near your stay."),
		primary,
		mealStop("13:00", "Lunch", destination, "lunch", 60, "Look for a popular spot for regional dishes."),
		gem,
		mealStop("19:00", "Dinner", destination, "dinner", 90, "End the day with a relaxed dinner."),
	})
}

func mealStop(at, name, destination, category string, minutes int, notes string) Stop {
	return Stop{
		Time:            at,
		Name:            name,
		Type:            StopMeal,
		DurationMinutes: Minutes(minutes),
		Notes:           notes,
		MapsQuery:       destination + " " + category,
	}
}

func attractionStop(destination string, named []types.PointOfInterest, idx int, placeholder, category, notes string) Stop {
	if idx < len(named) {
		p := named[idx]
		return Stop{
			Name:      p.Name,
			Type:      StopPlace,
			Notes:     notes,
			MapsQuery: p.Name + ", " + destination,
			Video:     p.Name + " " + destination,
		}
	}
	return Stop{
		Name:      placeholder,
		Type:      StopPlace,
		Notes:     notes,
		MapsQuery: destination + " " + category,
		Video:     destination + " " + category,
	}
}

// usablePOIs skips entries without a real name.
func usablePOIs(pois []types.PointOfInterest, n int) []types.PointOfInterest {
	out := make([]types.PointOfInterest, 0, n)
	for _, p := range pois {
		name := strings.TrimSpace(p.Name)
		if name == "" || strings.EqualFold(name, "unnamed") {
			continue
		}
		p.Name = name
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out
}
