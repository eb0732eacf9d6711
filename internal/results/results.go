// internal/results/results.go
//
// SQLite-backed record of completed games, one row per (post, player),
// plus the per-post leaderboard query. Active session state lives in the
// KV store; this is the reporting side.

package results

import (
	"context"
	"database/sql"
)

// Result is one completed game.
type Result struct {
	PostID    string `json:"postId"`
	PlayerID  string `json:"playerId"`
	Won       bool   `json:"won"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store wraps the results table.
type Store struct{ db *sql.DB }

// NewStore builds a Store over an opened database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyFinished reports whether the player already has a completed game
// recorded for the post.
func (s *Store) AlreadyFinished(ctx context.Context, postID, playerID string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM results WHERE post_id=? AND player_id=?",
		postID, playerID,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records one completed game; duplicate completions are
// ignored so retried writes stay idempotent.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results(post_id, player_id, won, attempts, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.PostID, r.PlayerID, r.Won, r.Attempts, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard returns the top winners for a post: fewest attempts first,
// fastest first among equals.
func (s *Store) Leaderboard(ctx context.Context, postID string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, attempts, elapsed_ms
		 FROM results
		 WHERE post_id=? AND won=1
		 ORDER BY attempts ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, postID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LBRow
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Attempts, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
