package embedding

import (
	"context"
	"fmt"

	"github.com/jonathan/cocktail-advisor/internal/llm"
)

// maxGeminiBatch is the API limit on texts per batch request.
const maxGeminiBatch = 100

// GeminiProvider encodes text with a Gemini embedding model.
type GeminiProvider struct {
	client llm.Embedder
}

// NewGeminiProvider wraps an embedding-capable LLM client.
func NewGeminiProvider(client llm.Embedder) *GeminiProvider {
	return &GeminiProvider{client: client}
}

// Model returns the embedding model name.
func (p *GeminiProvider) Model() string {
	return "gemini:" + p.client.EmbeddingModel()
}

// Encode embeds a single text.
func (p *GeminiProvider) Encode(ctx context.Context, text string) (Vector, error) {
	vecs, err := p.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch embeds texts, splitting into API-sized chunks.
func (p *GeminiProvider) EncodeBatch(ctx context.Context, texts []string) ([]Vector, error) {
	out := make([]Vector, 0, len(texts))
	for start := 0; start < len(texts); start += maxGeminiBatch {
		end := min(start+maxGeminiBatch, len(texts))
		raw, err := p.client.EmbedTexts(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(raw) != end-start {
			return nil, ErrEmptyResult
		}
		for _, r := range raw {
			out = append(out, Vector(r))
		}
	}
	return out, nil
}
