package ai

import "voyage/internal/types"

// Prompt is one generation request: a system instruction plus one user
// instruction.
type Prompt struct {
	System string
	User   string
}

// PromptHints is optional location context gathered before prompting. Empty
// fields are left out of the prompt.
type PromptHints struct {
	Center  *types.Point
	POIs    []types.PointOfInterest
	Weather string
}
