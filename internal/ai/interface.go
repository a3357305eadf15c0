package ai

import (
	"context"

	"voyage/internal/modules/itinerary"
)

// Generator sends one prompt to a text-generation backend. Implementations
// never return an error or panic: every failure is reported as
// itinerary.Unavailable so a missing backend cannot abort planning.
type Generator interface {
	Generate(ctx context.Context, p Prompt) itinerary.Outcome
}

// Disabled is the generator used when no backend is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, Prompt) itinerary.Outcome {
	return itinerary.Unavailable()
}
