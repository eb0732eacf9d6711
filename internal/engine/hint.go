// internal/engine/hint.go
//
// Hint selection: rank the whole vocabulary by how much each word lies
// "between" the guess and the target in embedding space, then return the
// best candidate that neither repeats history nor gives the answer away.
//
// Selection order and tie-breaks are load-bearing: a stable ascending
// sort over the collinearity score, then a strict pass with distance
// floors, then a fallback pass with only the identity/history/substring
// exclusions, then the "unknown" sentinel. Changing any of it changes
// which hints players see.

package engine

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/driftword/go-server/internal/metrics"
	"github.com/driftword/go-server/internal/vector"
)

const (
	// UnknownHint is returned when no admissible hint exists, or when the
	// caller violated the pre-validated-guess contract.
	UnknownHint = "unknown"

	// A hint must keep at least this fraction of the guess↔target
	// distance away from the target.
	minTargetDistFactor = 0.33
	// ...and at least this fraction away from every prior guess.
	minGuessDistFactor = 0.5

	// Substring collisions only count when the shorter word has at least
	// this many characters; shorter fragments are noise.
	minOverlapLen = 3
)

// selectHint picks the next hint for guess against target, given the
// session's guess history (already including guess itself) and the hints
// shown so far.
func (e *Engine) selectHint(guess string, target TargetAssignment, guessHistory, usedHints []string) string {
	guessEmb, ok := e.table.Embedding(guess)
	if !ok {
		// Pre-validation was skipped upstream; degrade, don't crash.
		log.Warn().Str("guess", guess).Msg("hint requested for out-of-vocabulary guess")
		metrics.HintExhaustedTotal.Inc()
		return UnknownHint
	}

	// Rank every vocabulary word (guess and target included — they fall
	// to the exclusion checks, not the ranking) by collinearity score:
	// dist(guess, w) + dist(target, w). Lower lies more "between".
	words := e.table.Words()
	scores := make([]float64, len(words))
	order := make([]int, len(words))
	for i, w := range words {
		emb, _ := e.table.Embedding(w)
		scores[i] = vector.Cosine(guessEmb, emb) + vector.Cosine(target.Embedding, emb)
		order[i] = i
	}
	// Stable: equal scores keep vocabulary order.
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	d := vector.Cosine(guessEmb, target.Embedding)
	minDistFromTarget := minTargetDistFactor * d
	minDistFromGuesses := minGuessDistFactor * d

	// Strict pass: exclusions plus both distance floors.
	for _, idx := range order {
		w := words[idx]
		if e.excluded(w, target.Word, guessHistory, usedHints) {
			continue
		}
		emb, _ := e.table.Embedding(w)
		if vector.Cosine(target.Embedding, emb) < minDistFromTarget {
			continue
		}
		if e.tooCloseToAGuess(emb, guessHistory, minDistFromGuesses) {
			continue
		}
		return w
	}

	// Fallback pass: the distance floors are dropped, the exclusions are
	// not. Guarantees a hint whenever any admissible word remains.
	metrics.HintFallbacksTotal.Inc()
	for _, idx := range order {
		w := words[idx]
		if !e.excluded(w, target.Word, guessHistory, usedHints) {
			return w
		}
	}

	// Vocabulary exhausted by exclusions. Not an error, but worth seeing
	// in diagnostics: the vocabulary is too small for this session.
	log.Warn().Str("guess", guess).Int("guesses", len(guessHistory)).Int("hints", len(usedHints)).
		Msg("hint search exhausted vocabulary")
	metrics.HintExhaustedTotal.Inc()
	return UnknownHint
}

// excluded applies the identity, history and substring checks shared by
// both passes.
func (e *Engine) excluded(w, target string, guessHistory, usedHints []string) bool {
	if w == target || containsWord(guessHistory, w) || containsWord(usedHints, w) {
		return true
	}
	if overlaps(w, target) {
		return true
	}
	for _, g := range guessHistory {
		if overlaps(w, g) {
			return true
		}
	}
	for _, h := range usedHints {
		if overlaps(w, h) {
			return true
		}
	}
	return false
}

// tooCloseToAGuess reports whether emb is within minDist of any prior
// guess's embedding. Out-of-vocabulary history entries are skipped.
func (e *Engine) tooCloseToAGuess(emb []float64, guessHistory []string, minDist float64) bool {
	for _, g := range guessHistory {
		gEmb, ok := e.table.Embedding(g)
		if !ok {
			continue
		}
		if vector.Cosine(gEmb, emb) < minDist {
			return true
		}
	}
	return false
}

// overlaps reports a substring collision between a and b: the shorter
// word is contained in the longer and is at least minOverlapLen long.
func overlaps(a, b string) bool {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < minOverlapLen {
		return false
	}
	return strings.Contains(longer, shorter)
}

func containsWord(list []string, w string) bool {
	for _, x := range list {
		if x == w {
			return true
		}
	}
	return false
}
