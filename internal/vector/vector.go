// internal/vector/vector.go
//
// Cosine distance over word-embedding vectors.
// This is the only distance metric the hint engine uses; proximity in
// embedding space approximates semantic similarity.

package vector

import (
	"fmt"
	"math"
)

// Cosine returns the cosine distance between two equal-length vectors:
//
//	1 − (a·b)/(|a||b|)
//
// The result is always in [0, 2]: 0 = identical direction, 1 = orthogonal,
// 2 = opposite direction.
//
// If either vector has zero magnitude the distance is defined as exactly 1
// (neutral, neither similar nor dissimilar) instead of dividing by zero.
//
// Vectors of mismatched length are a programming error — the embedding
// table guarantees a constant dimensionality — so Cosine panics rather
// than returning a silently wrong value.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vector: dimension mismatch %d vs %d", len(a), len(b)))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
