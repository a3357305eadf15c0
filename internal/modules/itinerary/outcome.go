// README: Tagged result of one generation attempt.
package itinerary

type OutcomeKind int

const (
	OutcomeUnavailable OutcomeKind = iota
	OutcomeStructured
	OutcomeUnstructured
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeStructured:
		return "structured"
	case OutcomeUnstructured:
		return "unstructured"
	default:
		return "unavailable"
	}
}

// Outcome is what a generator hands to the normalizer. Only the normalizer
// turns one kind into another.
type Outcome struct {
	kind  OutcomeKind
	stops []Stop
	raw   string
}

func Structured(stops []Stop) Outcome { return Outcome{kind: OutcomeStructured, stops: stops} }
func Unstructured(raw string) Outcome { return Outcome{kind: OutcomeUnstructured, raw: raw} }
func Unavailable() Outcome            { return Outcome{kind: OutcomeUnavailable} }

func (o Outcome) Kind() OutcomeKind { return o.kind }
func (o Outcome) Stops() []Stop     { return o.stops }
func (o Outcome) Raw() string       { return o.raw }
