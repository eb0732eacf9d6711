// internal/engine/engine.go
//
// Core game engine for a single semantic-hint session.
// Responsibilities:
//   - Resolve target assignments against the embedding table.
//   - Validate and apply guesses against the attempt ceiling.
//   - Track state transitions: active → won/lost.
//   - Drive hint selection (see hint.go) after every wrong guess.
//
// Notes:
//   - The engine is pure computation over the shared read-only table;
//     persistence and transport live in the callers.
//   - A terminal session rejects further guesses but reveals the target,
//     so the player can see the answer once the game is over.

package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/driftword/go-server/internal/metrics"
	"github.com/driftword/go-server/internal/vocab"
)

// MaxAttempts is the attempt ceiling: a session ends in a loss once this
// many guesses are recorded without a correct one.
const MaxAttempts = 10

// ErrNoResolvableTarget is returned when a rotation word has no embedding
// in the table — a data integrity failure for that post's setup.
var ErrNoResolvableTarget = errors.New("engine: no resolvable target")

// Engine evaluates guesses against one embedding table.
type Engine struct {
	table *vocab.Table
}

// New constructs an Engine over a shared read-only table.
func New(table *vocab.Table) *Engine {
	return &Engine{table: table}
}

// Table returns the embedding table the engine was built over.
func (e *Engine) Table() *vocab.Table { return e.table }

// NewTarget resolves word into a TargetAssignment. The rotation already
// draws from the vocabulary, so a miss here means the table and the
// rotation disagree — surfaced, never defaulted.
func (e *Engine) NewTarget(word string) (TargetAssignment, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	emb, ok := e.table.Embedding(word)
	if !ok {
		return TargetAssignment{}, fmt.Errorf("%w: %q", ErrNoResolvableTarget, word)
	}
	return TargetAssignment{Word: word, Embedding: emb}, nil
}

// SubmitGuess applies one guess to the session, mutating it in place, and
// returns the outcome.
//
// Transitions:
//   - Terminal session → OutcomeAlreadyCompleted, nothing mutated.
//   - guess == target  → OutcomeWon (at any attempt count).
//   - attempt ceiling reached → OutcomeLost, target revealed.
//   - otherwise → OutcomeHint with a freshly selected hint.
//
// Callers pre-validate that guess is a non-empty vocabulary word; if they
// don't, hint selection degrades to the "unknown" sentinel rather than
// failing.
func (e *Engine) SubmitGuess(sess *PlayerSession, target TargetAssignment, guess string) Outcome {
	if sess.Solved {
		return Outcome{
			Kind:         OutcomeAlreadyCompleted,
			Correct:      sess.Won(target.Word),
			GameOver:     true,
			Target:       target.Word,
			AttemptsUsed: len(sess.Guesses),
		}
	}

	guess = strings.ToLower(strings.TrimSpace(guess))
	sess.Guesses = append(sess.Guesses, guess)
	metrics.GuessesTotal.Inc()

	if guess == target.Word {
		sess.Solved = true
		metrics.WinsTotal.Inc()
		return Outcome{
			Kind:         OutcomeWon,
			Correct:      true,
			GameOver:     true,
			Target:       target.Word,
			AttemptsUsed: len(sess.Guesses),
		}
	}

	if len(sess.Guesses) >= MaxAttempts {
		sess.Solved = true
		metrics.LossesTotal.Inc()
		return Outcome{
			Kind:         OutcomeLost,
			GameOver:     true,
			Target:       target.Word,
			AttemptsUsed: len(sess.Guesses),
		}
	}

	hint := e.selectHint(guess, target, sess.Guesses, sess.Hints)
	sess.Hints = append(sess.Hints, hint)
	return Outcome{
		Kind:             OutcomeHint,
		Hint:             hint,
		AttemptsUsed:     len(sess.Guesses),
		GuessesRemaining: MaxAttempts - len(sess.Guesses),
	}
}
