// README: Session store contract and the in-memory backend.
package session

import (
	"context"
	"sync"
)

// Store persists one itinerary payload and one identity per session.
//
// NextSeq hands out strictly increasing sequence numbers per session.
// SaveItinerary stores the payload only when seq is greater than the
// sequence of the payload already held, and reports whether it did.
type Store interface {
	NextSeq(ctx context.Context, sessionID string) (uint64, error)
	SaveItinerary(ctx context.Context, sessionID string, seq uint64, payload []byte) (bool, error)
	LoadItinerary(ctx context.Context, sessionID string) ([]byte, bool, error)
	SetIdentity(ctx context.Context, sessionID, email string) error
	Identity(ctx context.Context, sessionID string) (string, bool, error)
	ClearIdentity(ctx context.Context, sessionID string) error
}

type memEntry struct {
	nextSeq   uint64
	committed uint64
	payload   []byte
	identity  string
	loggedIn  bool
}

// MemoryStore keeps session state in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memEntry)}
}

func (m *MemoryStore) entry(id string) *memEntry {
	e, ok := m.sessions[id]
	if !ok {
		e = &memEntry{}
		m.sessions[id] = e
	}
	return e
}

func (m *MemoryStore) NextSeq(_ context.Context, id string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(id)
	e.nextSeq++
	return e.nextSeq, nil
}

func (m *MemoryStore) SaveItinerary(_ context.Context, id string, seq uint64, payload []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(id)
	if seq <= e.committed {
		return false, nil
	}
	e.committed = seq
	e.payload = append([]byte(nil), payload...)
	return true, nil
}

func (m *MemoryStore) LoadItinerary(_ context.Context, id string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || e.payload == nil {
		return nil, false, nil
	}
	return append([]byte(nil), e.payload...), true, nil
}

func (m *MemoryStore) SetIdentity(_ context.Context, id, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(id)
	e.identity, e.loggedIn = email, true
	return nil
}

func (m *MemoryStore) Identity(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || !e.loggedIn {
		return "", false, nil
	}
	return e.identity, true, nil
}

func (m *MemoryStore) ClearIdentity(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		e.identity, e.loggedIn = "", false
	}
	return nil
}
