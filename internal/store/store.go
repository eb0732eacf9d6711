// internal/store/store.go
//
// Persistence interfaces for game state.
// Implementations may be backed by memory (dev/tests) or BadgerDB
// (production). Each key is read and written as a single logical unit;
// serializing concurrent guesses for the same (post, player) pair is the
// HTTP layer's job.

package store

import (
	"context"
	"errors"

	"github.com/driftword/go-server/internal/engine"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: not found")

// SessionStore persists per (post, player) sessions.
type SessionStore interface {
	GetSession(ctx context.Context, postID, playerID string) (*engine.PlayerSession, error)
	PutSession(ctx context.Context, postID, playerID string, s *engine.PlayerSession) error
}

// TargetStore persists the per-post target assignment.
type TargetStore interface {
	GetTarget(ctx context.Context, postID string) (engine.TargetAssignment, error)
	PutTarget(ctx context.Context, postID string, t engine.TargetAssignment) error
}

// CounterStore hands out the rotation counter: a monotonic integer,
// incremented exactly once per first-touched post.
type CounterStore interface {
	Next(ctx context.Context) (uint64, error)
}

// Store bundles everything the server needs.
type Store interface {
	SessionStore
	TargetStore
	CounterStore
	Close() error
}
