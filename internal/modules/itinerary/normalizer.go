// README: Response normalizer: strict decode, bracket extraction, markup fallback, synthesized default.
package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"voyage/internal/types"
)

// Stage records which strategy produced an itinerary.
type Stage string

const (
	StageStructured Stage = "structured"
	StageDirect     Stage = "direct"
	StageExtracted  Stage = "extracted"
	StageMarkup     Stage = "markup"
	StageFallback   Stage = "fallback"
)

type Normalizer struct {
	log *zap.Logger
}

func NewNormalizer(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log}
}

// Normalize turns a generation outcome into a displayable itinerary, trying
// strategies from strict to loose. It never fails: an unavailable outcome,
// blank text or an empty stop list ends in the synthesized default.
func (n *Normalizer) Normalize(o Outcome, destination string, pois []types.PointOfInterest) (Itinerary, Stage) {
	switch o.Kind() {
	case OutcomeStructured:
		if len(o.Stops()) > 0 {
			return FromStops(o.Stops()), StageStructured
		}
		n.log.Debug("structured outcome carried no stops")
	case OutcomeUnstructured:
		raw := o.Raw()
		if strings.TrimSpace(raw) == "" {
			n.log.Debug("generator returned blank text")
			break
		}
		if it, stage, ok := n.fromText(raw); ok {
			return it, stage
		}
	}
	n.log.Info("using synthesized itinerary", zap.String("destination", destination), zap.Int("pois", len(pois)))
	return Synthesize(destination, pois), StageFallback
}

func (n *Normalizer) fromText(raw string) (Itinerary, Stage, bool) {
	stops, err := DecodeStops(raw)
	if err == nil {
		if len(stops) == 0 {
			return Itinerary{}, "", false
		}
		return FromStops(stops), StageDirect, true
	}
	n.log.Debug("direct decode failed", zap.Error(err))

	stops, err = ExtractStops(raw)
	if err == nil {
		if len(stops) == 0 {
			return Itinerary{}, "", false
		}
		return FromStops(stops), StageExtracted, true
	}
	n.log.Debug("bracket extraction failed", zap.Error(err))

	return FromText(raw, MarkupText(raw)), StageMarkup, true
}

// DecodeStops parses the whole text as a JSON array of stops.
func DecodeStops(raw string) ([]Stop, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: not a JSON array", ErrMalformedResponse)
	}
	var stops []Stop
	if err := json.Unmarshal([]byte(trimmed), &stops); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return stops, nil
}

// ExtractStops decodes the span from the first '[' to the last ']' inclusive.
// Disjoint bracketed regions are not tried separately.
func ExtractStops(raw string) ([]Stop, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < 0 || start >= end {
		return nil, fmt.Errorf("%w: no bracketed array", ErrMalformedResponse)
	}
	return DecodeStops(raw[start : end+1])
}
