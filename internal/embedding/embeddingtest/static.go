// Package embeddingtest provides a deterministic embedding.Provider for tests.
package embeddingtest

import (
	"context"
	"sync"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
)

// Static maps known texts to fixed vectors; other texts get Default.
type Static struct {
	Vectors map[string]embedding.Vector
	Default embedding.Vector
	// Err, when set, is returned by every call.
	Err error

	mu      sync.Mutex
	batches int
	texts   int
}

// New returns a Static provider with the given vectors and default.
func New(vectors map[string]embedding.Vector, def embedding.Vector) *Static {
	return &Static{Vectors: vectors, Default: def}
}

// Model identifies the fake space.
func (s *Static) Model() string { return "static-test" }

// Encode returns the vector for text.
func (s *Static) Encode(ctx context.Context, text string) (embedding.Vector, error) {
	out, err := s.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EncodeBatch returns one vector per text.
func (s *Static) EncodeBatch(_ context.Context, texts []string) ([]embedding.Vector, error) {
	s.mu.Lock()
	s.batches++
	s.texts += len(texts)
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]embedding.Vector, len(texts))
	for i, t := range texts {
		if v, ok := s.Vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = s.Default
		}
	}
	return out, nil
}

// Batches returns how many EncodeBatch calls were made.
func (s *Static) Batches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

// Texts returns how many texts were encoded in total.
func (s *Static) Texts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texts
}
