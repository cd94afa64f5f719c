// Package guardrail rejects queries that are not about drinks before any
// expensive work is done.
package guardrail

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// Threshold is the minimum best-keyword similarity for a query to pass.
const Threshold = 0.30

// RefusalMessage is returned for off-topic queries.
const RefusalMessage = "Desole, le barman ne comprend que les commandes de boissons !"

// Keywords anchor the drinks domain.
var Keywords = []string{
	"cocktail", "alcool", "boisson", "mojito", "whisky", "rhum", "vodka",
	"gin", "biere", "vin", "aperitif", "digestif", "bar", "barman", "shaker",
	"martini", "margarita", "daiquiri", "negroni", "spritz", "punch", "tequila",
}

// Guardrail compares queries to the keyword catalog.
type Guardrail struct {
	provider embedding.Provider

	mu      sync.Mutex
	anchors []embedding.Vector
}

// New returns a guardrail using provider for all encodings.
func New(provider embedding.Provider) *Guardrail {
	return &Guardrail{provider: provider}
}

func (g *Guardrail) keywordVectors(ctx context.Context) ([]embedding.Vector, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.anchors != nil {
		return g.anchors, nil
	}
	vecs, err := g.provider.EncodeBatch(ctx, Keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to encode guardrail keywords: %w", err)
	}
	g.anchors = vecs
	return vecs, nil
}

// Check decides whether text is about drinks. Off-topic text is a normal
// result with status error; the returned error is reserved for embedding
// failures.
func (g *Guardrail) Check(ctx context.Context, text string) (types.RelevanceResult, error) {
	if strings.TrimSpace(text) == "" {
		metrics.GuardrailDecisions.WithLabelValues(string(types.RelevanceError)).Inc()
		return types.RelevanceResult{Status: types.RelevanceError, Message: RefusalMessage}, nil
	}

	anchors, err := g.keywordVectors(ctx)
	if err != nil {
		return types.RelevanceResult{}, err
	}
	q, err := g.provider.Encode(ctx, text)
	if err != nil {
		return types.RelevanceResult{}, fmt.Errorf("failed to encode query: %w", err)
	}

	_, best := embedding.Max(embedding.CosineRow(q, anchors))
	res := types.RelevanceResult{Status: types.RelevanceOK, Similarity: best}
	if best < Threshold {
		res.Status = types.RelevanceError
		res.Message = RefusalMessage
	}

	metrics.GuardrailDecisions.WithLabelValues(string(res.Status)).Inc()
	logging.Ctx(ctx).Debug().Str("status", string(res.Status)).Float64("similarity", best).Msg("Relevance checked")
	return res, nil
}
