package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/jonathan/cocktail-advisor/internal/textnorm"
)

// LexicalProvider is an offline embedder built from hashed word and character
// trigram features. Texts sharing whole words land close together; a one-letter
// typo in a short name ("vodkaa") shares only some trigrams and usually stays
// well under the profiler's 0.75 similarity threshold. It captures surface
// form, not meaning, and serves when no embedding API is configured.
type LexicalProvider struct {
	dims int
}

// NewLexicalProvider returns a lexical embedder with the given dimensionality.
func NewLexicalProvider(dims int) *LexicalProvider {
	if dims <= 0 {
		dims = 256
	}
	return &LexicalProvider{dims: dims}
}

// Model identifies the feature space.
func (p *LexicalProvider) Model() string {
	return fmt.Sprintf("lexical-%d", p.dims)
}

// Encode embeds a single text.
func (p *LexicalProvider) Encode(_ context.Context, text string) (Vector, error) {
	return p.encode(text), nil
}

// EncodeBatch embeds every text.
func (p *LexicalProvider) EncodeBatch(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = p.encode(t)
	}
	return out, nil
}

func (p *LexicalProvider) encode(text string) Vector {
	v := make(Vector, p.dims)
	for _, word := range strings.Fields(textnorm.Name(text)) {
		p.add(v, "w:"+word, 1.0)
		padded := "^" + word + "$"
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			p.add(v, "t:"+string(runes[i:i+3]), 0.5)
		}
	}
	return Normalize(v)
}

// add hashes a feature into a bucket; one hash bit picks the sign so unrelated
// features cancel out on average.
func (p *LexicalProvider) add(v Vector, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(p.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	v[idx] += weight
}
