// internal/rotation/rotation.go
//
// Deterministic target-word rotation.
//
// Every process computes the same shuffled ordering of the vocabulary, so
// "the target word for post N" is a pure function of the vocabulary
// content and the shared rotation counter — no coordination beyond the
// counter itself.
//
// The pseudo-random stream is frac(sin(i) × 10000) for an incrementing
// counter i starting at 0. The seed string only gates which generator
// instance is built; the numeric stream itself does not depend on the
// seed's characters. Persisted rotations depend on this exact stream, so
// do not replace it with a hashed-seed generator.

package rotation

import "math"

// Seed names the rotation generator. See the package note: the stream is
// not derived from these characters.
const Seed = "driftword-rotation"

// generator yields the i-th pseudo-random value in [0, 1).
type generator struct {
	i int
}

func newGenerator(seed string) *generator {
	_ = seed
	return &generator{}
}

func (g *generator) next() float64 {
	x := math.Sin(float64(g.i)) * 10000
	g.i++
	return x - math.Floor(x)
}

// Rotation is a stable shuffled ordering of the vocabulary.
type Rotation struct {
	words []string
}

// New shuffles words with a Fisher–Yates pass driven by the seeded
// stream. The input slice is not modified.
func New(words []string) *Rotation {
	out := make([]string, len(words))
	copy(out, words)
	g := newGenerator(Seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(g.next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return &Rotation{words: out}
}

// Word returns the target word for the given rotation counter value,
// wrapping around when the counter exceeds the vocabulary length.
func (r *Rotation) Word(counter uint64) string {
	return r.words[counter%uint64(len(r.words))]
}

// Len returns the rotation length.
func (r *Rotation) Len() int { return len(r.words) }

// Words returns the shuffled ordering. Callers must not mutate it.
func (r *Rotation) Words() []string { return r.words }
