// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for development and tests; state is lost on restart.
//
// Characteristics:
//   - Sessions/targets keyed in maps, guarded by an RWMutex.
//   - Sessions are returned as copies so callers mutate their own view
//     and persist it back with PutSession, matching the durable stores.

package store

import (
	"context"
	"sync"

	"github.com/driftword/go-server/internal/engine"
)

type memory struct {
	mu       sync.RWMutex
	sessions map[string]engine.PlayerSession // keyed postID|playerID
	targets  map[string]engine.TargetAssignment
	counter  uint64
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		sessions: make(map[string]engine.PlayerSession),
		targets:  make(map[string]engine.TargetAssignment),
	}
}

func sessionKey(postID, playerID string) string { return postID + "|" + playerID }

func (m *memory) GetSession(ctx context.Context, postID, playerID string) (*engine.PlayerSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionKey(postID, playerID)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := s
	cp.Guesses = append([]string(nil), s.Guesses...)
	cp.Hints = append([]string(nil), s.Hints...)
	return &cp, nil
}

func (m *memory) PutSession(ctx context.Context, postID, playerID string, s *engine.PlayerSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Guesses = append([]string(nil), s.Guesses...)
	cp.Hints = append([]string(nil), s.Hints...)
	m.sessions[sessionKey(postID, playerID)] = cp
	return nil
}

func (m *memory) GetTarget(ctx context.Context, postID string) (engine.TargetAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.targets[postID]
	if !ok {
		return engine.TargetAssignment{}, ErrNotFound
	}
	return t, nil
}

func (m *memory) PutTarget(ctx context.Context, postID string, t engine.TargetAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[postID] = t
	return nil
}

func (m *memory) Next(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.counter
	m.counter++
	return n, nil
}

func (m *memory) Close() error { return nil }
