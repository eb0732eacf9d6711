package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Toy 3-D embeddings: cat and kitten related, dog and puppy related, car
// off on its own. kitten sits between cat and dog but far enough from
// both to be an admissible hint; puppy hugs dog too closely.
func zooTable(t *testing.T) *Engine {
	return New(testTable(t,
		[]string{"cat", "dog", "kitten", "puppy", "car"},
		[][]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0.55, 0.25, 0.8},
			{0.2, 0.6, 0.78},
			{-1, -1, 0},
		},
	))
}

func TestSelectHintPrefersBetweenWord(t *testing.T) {
	e := zooTable(t)
	tgt, err := e.NewTarget("cat")
	require.NoError(t, err)

	sess := &PlayerSession{}
	out := e.SubmitGuess(sess, tgt, "dog")
	require.Equal(t, OutcomeHint, out.Kind)
	assert.Equal(t, "kitten", out.Hint)
	assert.NotEqual(t, "cat", out.Hint)
	assert.NotEqual(t, "dog", out.Hint)
}

// puppy ranks just behind kitten but is nearly collinear with the guess;
// the guess-distance floor must filter it even after kitten is used up.
func TestSelectHintRespectsGuessDistanceFloor(t *testing.T) {
	e := zooTable(t)
	tgt, _ := e.NewTarget("cat")

	hint := e.selectHint("dog", tgt, []string{"dog"}, []string{"kitten"})
	assert.Equal(t, "car", hint, "puppy is too close to the guess")
}

// With a constrained candidate available, the selector must return a word
// meeting both distance floors rather than falling back.
func TestSelectHintConstrainedCandidateWins(t *testing.T) {
	// "ice" is the top-ranked candidate but nearly identical to the
	// target; "ash" satisfies both floors.
	e := New(testTable(t,
		[]string{"cat", "dog", "ice", "ash"},
		[][]float64{{1, 0}, {0, 1}, {0.99, 0.14}, {-0.2, -0.3}},
	))
	tgt, _ := e.NewTarget("cat")

	hint := e.selectHint("dog", tgt, []string{"dog"}, nil)
	assert.Equal(t, "ash", hint)
}

// When every remaining word violates a distance floor, the fallback pass
// still produces a hint instead of giving up.
func TestSelectHintFallbackDropsDistanceFloors(t *testing.T) {
	e := New(testTable(t,
		[]string{"cat", "dog", "ice"},
		[][]float64{{1, 0}, {0, 1}, {0.99, 0.14}},
	))
	tgt, _ := e.NewTarget("cat")

	hint := e.selectHint("dog", tgt, []string{"dog"}, nil)
	assert.Equal(t, "ice", hint)
}

func TestSelectHintExhaustedReturnsUnknown(t *testing.T) {
	e := New(testTable(t,
		[]string{"cat", "dog"},
		[][]float64{{1, 0}, {0, 1}},
	))
	tgt, _ := e.NewTarget("cat")

	hint := e.selectHint("dog", tgt, []string{"dog"}, nil)
	assert.Equal(t, UnknownHint, hint)
}

func TestSelectHintOutOfVocabularyGuess(t *testing.T) {
	e := zooTable(t)
	tgt, _ := e.NewTarget("cat")

	hint := e.selectHint("zebra", tgt, []string{"zebra"}, nil)
	assert.Equal(t, UnknownHint, hint)
}

// "catalog" lies between cat and dog and passes every distance floor, but
// it contains the target and would leak it.
func TestSelectHintSubstringCollisionWithTarget(t *testing.T) {
	e := New(testTable(t,
		[]string{"cat", "dog", "catalog", "ash"},
		[][]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0.55, 0.25, 0.8},
			{-0.2, -0.3, 0},
		},
	))
	tgt, _ := e.NewTarget("cat")

	hint := e.selectHint("dog", tgt, []string{"dog"}, nil)
	assert.Equal(t, "ash", hint)
}

// Containment also counts the other way round: a short word inside a long
// target is excluded.
func TestSelectHintSubstringCollisionWithLongTarget(t *testing.T) {
	e := New(testTable(t,
		[]string{"catalog", "dog", "cat", "ash"},
		[][]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0.55, 0.25, 0.8},
			{-0.2, -0.3, 0},
		},
	))
	tgt, _ := e.NewTarget("catalog")

	hint := e.selectHint("dog", tgt, []string{"dog"}, nil)
	assert.Equal(t, "ash", hint)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, overlaps("cat", "catalog"))
	assert.True(t, overlaps("catalog", "cat"))
	assert.True(t, overlaps("rain", "train"))
	assert.False(t, overlaps("at", "cat"), "fragments under 3 chars are noise")
	assert.False(t, overlaps("dog", "catalog"))
	assert.True(t, overlaps("cat", "cat"))
}

// Stability: among equal collinearity scores the earlier vocabulary word
// wins.
func TestSelectHintStableTieBreak(t *testing.T) {
	// alpha and delta share identical embeddings, so identical scores.
	e := New(testTable(t,
		[]string{"cat", "dog", "alpha", "delta"},
		[][]float64{
			{1, 0, 0},
			{0, 1, 0},
			{-0.2, -0.3, 0},
			{-0.2, -0.3, 0},
		},
	))
	tgt, _ := e.NewTarget("cat")

	hint := e.selectHint("dog", tgt, []string{"dog"}, nil)
	assert.Equal(t, "alpha", hint)
}
