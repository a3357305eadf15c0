// README: Session service; hands out per-session scopes that own the current itinerary slot.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"voyage/internal/modules/itinerary"
)

type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, now: time.Now}
}

// Scope binds the service to one session. It is the context object passed
// through a planning run in place of a global slot.
func (s *Service) Scope(sessionID string) (*Scope, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	return &Scope{id: sessionID, svc: s}, nil
}

type Scope struct {
	id  string
	svc *Service
}

func (sc *Scope) ID() string { return sc.id }

// Begin reserves the sequence number for a new planning run. Later calls
// always return larger numbers.
func (sc *Scope) Begin(ctx context.Context) (uint64, error) {
	seq, err := sc.svc.store.NextSeq(ctx, sc.id)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// SetCurrent replaces the current itinerary if seq is newer than the one that
// wrote it. A false result means a newer run already stored its result and
// this one was discarded.
func (sc *Scope) SetCurrent(ctx context.Context, seq uint64, it itinerary.Itinerary) (bool, error) {
	payload, err := encodeRecord(Record{Seq: seq, SavedAt: sc.svc.now(), Itinerary: it})
	if err != nil {
		return false, fmt.Errorf("encode itinerary record: %w", err)
	}
	stored, err := sc.svc.store.SaveItinerary(ctx, sc.id, seq, payload)
	if err != nil {
		return false, fmt.Errorf("save itinerary: %w", err)
	}
	if !stored {
		sc.svc.log.Info("discarded stale itinerary", zap.String("session", sc.id), zap.Uint64("seq", seq))
	}
	return stored, nil
}

// Current returns the stored itinerary. Records written under another schema
// version read as absent.
func (sc *Scope) Current(ctx context.Context) (itinerary.Itinerary, bool, error) {
	rec, ok, err := sc.Record(ctx)
	if err != nil || !ok {
		return itinerary.Itinerary{}, false, err
	}
	return rec.Itinerary, true, nil
}

func (sc *Scope) Record(ctx context.Context) (Record, bool, error) {
	payload, ok, err := sc.svc.store.LoadItinerary(ctx, sc.id)
	if err != nil {
		return Record{}, false, fmt.Errorf("load itinerary: %w", err)
	}
	if !ok {
		return Record{}, false, nil
	}
	rec, err := decodeRecord(payload)
	if errors.Is(err, ErrUnsupportedVersion) {
		sc.svc.log.Warn("ignoring itinerary with unknown schema", zap.String("session", sc.id), zap.Error(err))
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Login records the session identity. Credentials are checked elsewhere.
func (sc *Scope) Login(ctx context.Context, email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	return sc.svc.store.SetIdentity(ctx, sc.id, strings.ToLower(addr.Address))
}

func (sc *Scope) Logout(ctx context.Context) error {
	return sc.svc.store.ClearIdentity(ctx, sc.id)
}

func (sc *Scope) Identity(ctx context.Context) (string, bool, error) {
	return sc.svc.store.Identity(ctx, sc.id)
}
