// README: Session state model and the versioned envelope persisted by every store backend.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voyage/internal/modules/itinerary"
)

// SchemaVersion tags every persisted itinerary. Bump it when the envelope or
// the itinerary JSON changes incompatibly.
const SchemaVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported itinerary schema version")
	ErrInvalidIdentity    = errors.New("invalid session identity")
	ErrInvalidSession     = errors.New("invalid session id")
)

// Record is the current itinerary of a session and the sequence number of
// the pipeline run that wrote it.
type Record struct {
	Seq       uint64
	SavedAt   time.Time
	Itinerary itinerary.Itinerary
}

type envelope struct {
	Version   int                 `json:"v"`
	Seq       uint64              `json:"seq"`
	SavedAt   time.Time           `json:"saved_at"`
	Itinerary itinerary.Itinerary `json:"itinerary"`
}

func encodeRecord(r Record) ([]byte, error) {
	return json.Marshal(envelope{
		Version:   SchemaVersion,
		Seq:       r.Seq,
		SavedAt:   r.SavedAt.UTC(),
		Itinerary: r.Itinerary,
	})
}

func decodeRecord(b []byte) (Record, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Record{}, fmt.Errorf("decode itinerary record: %w", err)
	}
	if env.Version != SchemaVersion {
		return Record{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return Record{Seq: env.Seq, SavedAt: env.SavedAt, Itinerary: env.Itinerary}, nil
}
