// internal/store/badger.go
//
// BadgerDB-backed implementation of the Store interface, for durable
// state across restarts. Values are JSON-encoded; keys are prefixed per
// record kind. The rotation counter lives under its own key and is
// incremented inside a single read-modify-write transaction.

package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/driftword/go-server/internal/engine"
)

const (
	sessionKeyPrefix = "session:"
	targetKeyPrefix  = "target:"
	counterKey       = "rotation_counter"
)

// Badger is a durable Store on an embedded BadgerDB.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (creating if missing) a Badger store in dir.
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger at %s: %w", dir, err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) GetSession(ctx context.Context, postID, playerID string) (*engine.PlayerSession, error) {
	var s engine.PlayerSession
	key := []byte(sessionKeyPrefix + sessionKey(postID, playerID))
	if err := b.get(key, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (b *Badger) PutSession(ctx context.Context, postID, playerID string, s *engine.PlayerSession) error {
	key := []byte(sessionKeyPrefix + sessionKey(postID, playerID))
	return b.put(key, s)
}

func (b *Badger) GetTarget(ctx context.Context, postID string) (engine.TargetAssignment, error) {
	var t engine.TargetAssignment
	if err := b.get([]byte(targetKeyPrefix+postID), &t); err != nil {
		return engine.TargetAssignment{}, err
	}
	return t, nil
}

func (b *Badger) PutTarget(ctx context.Context, postID string, t engine.TargetAssignment) error {
	return b.put([]byte(targetKeyPrefix+postID), t)
}

// Next increments the rotation counter and returns its previous value.
// Badger transactions retry-safe the read-modify-write via ErrConflict,
// so concurrent first-touches never hand out the same value.
func (b *Badger) Next(ctx context.Context) (uint64, error) {
	for {
		var n uint64
		err := b.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(counterKey))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				n = 0
			case err != nil:
				return err
			default:
				if err := item.Value(func(val []byte) error {
					if len(val) != 8 {
						return fmt.Errorf("store: corrupt counter value (%d bytes)", len(val))
					}
					n = binary.BigEndian.Uint64(val)
					return nil
				}); err != nil {
					return err
				}
			}
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], n+1)
			return txn.Set([]byte(counterKey), buf[:])
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("store: advance counter: %w", err)
		}
		return n, nil
	}
}

func (b *Badger) Close() error { return b.db.Close() }

func (b *Badger) get(key []byte, out any) error {
	return b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("store: get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
}

func (b *Badger) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}
