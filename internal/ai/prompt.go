// README: Prompt builder for itinerary generation.
package ai

import (
	"fmt"
	"strings"

	"voyage/internal/modules/itinerary"
)

// maxPromptPOIs caps how many nearby places are listed in the prompt.
const maxPromptPOIs = 8

const systemInstruction = `You are a travel planner that writes practical, realistic day plans.
You answer with data, not conversation.`

// BuildPrompt renders the generation request for a trip. It is pure: the same
// request and hints always give the same prompt.
func BuildPrompt(req itinerary.TripRequest, hints PromptHints) Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan a %s trip to %s.\n", req.Duration().Label(), req.Destination())
	if tags := req.Interests(); len(tags) > 0 {
		fmt.Fprintf(&b, "Interests: %s.\n", strings.Join(tags, ", "))
	} else {
		b.WriteString("Interests: general sightseeing.\n")
	}
	if hints.Center != nil {
		fmt.Fprintf(&b, "Destination coordinates: %.5f, %.5f.\n", hints.Center.Lat, hints.Center.Lng)
	}
	if w := strings.TrimSpace(hints.Weather); w != "" {
		fmt.Fprintf(&b, "Current weather: %s.\n", w)
	}
	if len(hints.POIs) > 0 {
		b.WriteString("Nearby points of interest, closest first:\n")
		for i, p := range hints.POIs {
			if i == maxPromptPOIs {
				break
			}
			if p.Category != "" {
				fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.Category)
			} else {
				fmt.Fprintf(&b, "- %s\n", p.Name)
			}
		}
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("- Include breakfast, lunch and dinner as stops with type \"meal\".\n")
	if req.IncludeSnacks() {
		b.WriteString("- Include one snack break as a stop with type \"meal\".\n")
	} else {
		b.WriteString("- Do not add a snack break.\n")
	}
	switch req.Duration() {
	case itinerary.DurationHalfDay, itinerary.DurationMostOfDay, itinerary.DurationOneDay:
	default:
		b.WriteString("- Cover every day; prefix each time with the day, for example \"Day 2 09:00\".\n")
	}
	b.WriteString("- List stops in the order they happen.\n")

	b.WriteString(`
Output format:
Return ONLY a JSON array. Each element is an object with exactly these fields:
  "time": start time as "HH:MM"
  "name": place or activity name
  "type": one of "place", "meal", "travel"
  "duration_minutes": integer number of minutes
  "notes": one short sentence
  "maps_query": text to search for the stop on a map
  "youtube": a YouTube URL or search phrase for a related video
Do not wrap the array in markdown and do not add commentary.
If you cannot produce JSON, reply with a short plain-text plan instead, writing each map search as "Maps Query: <text>" and each video as "YouTube: <url or search phrase>".`)

	return Prompt{System: systemInstruction, User: b.String()}
}
