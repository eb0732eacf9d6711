// internal/engine/types.go
//
// Core type definitions for the hint engine.
// Defines:
//   - TargetAssignment: the hidden word attached to one post.
//   - PlayerSession: per (post, player) progress.
//   - Outcome: result of submitting one guess.

package engine

import "time"

// TargetAssignment is the hidden word for a single post, created lazily on
// first interaction and immutable for the post's lifetime.
type TargetAssignment struct {
	Word      string    `json:"word"`
	Embedding []float64 `json:"embedding"`
}

// PlayerSession holds one player's progress against one post.
// Solved flips false→true exactly once, when the session ends — won or
// lost; which of the two it was is recoverable from whether the last
// recorded guess equals the target.
type PlayerSession struct {
	Guesses   []string  `json:"guessesHistory"`
	Hints     []string  `json:"usedHints"`
	Solved    bool      `json:"solved"`
	StartedAt time.Time `json:"startedAt"`
}

// Won reports whether a terminal session ended with a correct guess.
func (s *PlayerSession) Won(target string) bool {
	return s.Solved && len(s.Guesses) > 0 && s.Guesses[len(s.Guesses)-1] == target
}

// OutcomeKind discriminates the result of a guess submission.
type OutcomeKind string

const (
	// OutcomeAlreadyCompleted: the session was terminal before this guess.
	OutcomeAlreadyCompleted OutcomeKind = "already_completed"
	// OutcomeWon: this guess matched the target.
	OutcomeWon OutcomeKind = "won"
	// OutcomeLost: this guess used up the last attempt without matching.
	OutcomeLost OutcomeKind = "lost"
	// OutcomeHint: the game continues; Hint carries the next nudge.
	OutcomeHint OutcomeKind = "hint"
)

// Outcome is what one guess submission produced.
type Outcome struct {
	Kind             OutcomeKind
	Correct          bool
	GameOver         bool
	Hint             string // set for OutcomeHint
	Target           string // revealed once the game is over
	AttemptsUsed     int
	GuessesRemaining int
}
