// README: Session store backed by Postgres; one row per session, conditional upsert for writes.
package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionStateDDL = `
CREATE TABLE IF NOT EXISTS session_state (
	session_id    TEXT PRIMARY KEY,
	next_seq      BIGINT NOT NULL DEFAULT 0,
	committed_seq BIGINT NOT NULL DEFAULT 0,
	itinerary     JSONB,
	identity      TEXT,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// EnsureSchema creates the session_state table when missing.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, sessionStateDDL)
	return err
}

func (s *PGStore) NextSeq(ctx context.Context, id string) (uint64, error) {
	var seq int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO session_state (session_id, next_seq)
		VALUES ($1, 1)
		ON CONFLICT (session_id) DO UPDATE SET
			next_seq = session_state.next_seq + 1,
			updated_at = now()
		RETURNING next_seq
	`, id).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return uint64(seq), nil
}

// SaveItinerary reports false when a newer or equal sequence is already
// committed (0 rows affected).
func (s *PGStore) SaveItinerary(ctx context.Context, id string, seq uint64, payload []byte) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO session_state (session_id, committed_seq, itinerary)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (session_id) DO UPDATE SET
			committed_seq = EXCLUDED.committed_seq,
			itinerary = EXCLUDED.itinerary,
			updated_at = now()
		WHERE session_state.committed_seq < EXCLUDED.committed_seq
	`, id, int64(seq), string(payload))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) LoadItinerary(ctx context.Context, id string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT itinerary FROM session_state WHERE session_id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if payload == nil {
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *PGStore) SetIdentity(ctx context.Context, id, email string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO session_state (session_id, identity)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO UPDATE SET
			identity = EXCLUDED.identity,
			updated_at = now()
	`, id, email)
	return err
}

func (s *PGStore) Identity(ctx context.Context, id string) (string, bool, error) {
	var identity *string
	err := s.db.QueryRow(ctx, `SELECT identity FROM session_state WHERE session_id = $1`, id).Scan(&identity)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if identity == nil {
		return "", false, nil
	}
	return *identity, true, nil
}

func (s *PGStore) ClearIdentity(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `UPDATE session_state SET identity = NULL, updated_at = now() WHERE session_id = $1`, id)
	return err
}
