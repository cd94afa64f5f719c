// Package embedding turns text into vectors and compares them by cosine similarity.
package embedding

import (
	"context"
	"errors"
	"math"
	"sort"
)

// Vector is a dense text embedding.
type Vector []float32

// Provider encodes text into fixed-length vectors. Implementations must be
// deterministic for a given model and safe for concurrent use.
type Provider interface {
	Encode(ctx context.Context, text string) (Vector, error)
	// EncodeBatch returns one vector per input, in input order.
	EncodeBatch(ctx context.Context, texts []string) ([]Vector, error)
	// Model identifies the embedding space; vectors from different models are not comparable.
	Model() string
}

// ErrEmptyResult is returned when a backend answers without vectors.
var ErrEmptyResult = errors.New("embedding backend returned no vectors")

// Cosine returns the cosine similarity of a and b, or 0 when either is a zero
// vector or the lengths differ.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// CosineRow compares q against every row of m.
func CosineRow(q Vector, m []Vector) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		out[i] = Cosine(q, row)
	}
	return out
}

// Max returns the index and value of the largest similarity; (-1, 0) for empty input.
// Ties keep the lowest index.
func Max(sims []float64) (int, float64) {
	best, bestVal := -1, 0.0
	for i, s := range sims {
		if best < 0 || s > bestVal {
			best, bestVal = i, s
		}
	}
	return best, bestVal
}

// TopKMean returns the mean of the k largest values (all values when fewer than k).
func TopKMean(sims []float64, k int) float64 {
	if len(sims) == 0 || k <= 0 {
		return 0
	}
	sorted := append([]float64(nil), sims...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if k > len(sorted) {
		k = len(sorted)
	}
	var sum float64
	for _, s := range sorted[:k] {
		sum += s
	}
	return sum / float64(k)
}

// Normalize scales v to unit length in place. Zero vectors are left unchanged.
func Normalize(v Vector) Vector {
	var n float64
	for _, x := range v {
		n += float64(x) * float64(x)
	}
	if n == 0 {
		return v
	}
	inv := 1 / math.Sqrt(n)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}
