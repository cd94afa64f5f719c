package profiler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
	"github.com/jonathan/cocktail-advisor/internal/knowledge"
	"github.com/jonathan/cocktail-advisor/internal/llm"
	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
	"github.com/jonathan/cocktail-advisor/internal/prompts"
	"github.com/jonathan/cocktail-advisor/internal/schemas"
	"github.com/jonathan/cocktail-advisor/internal/textnorm"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// Resolver is one tier of the resolution chain. It reports false when it
// cannot produce a profile; failures are logged, never returned.
type Resolver interface {
	Name() string
	TryResolve(ctx context.Context, name string) (types.FlavorProfile, bool)
}

// KnownResolver matches the knowledge base by key, then English alias, then
// the profile cache.
type KnownResolver struct {
	kb    *knowledge.Base
	cache *Cache
}

func NewKnownResolver(kb *knowledge.Base, cache *Cache) *KnownResolver {
	return &KnownResolver{kb: kb, cache: cache}
}

func (r *KnownResolver) Name() string { return "known" }

func (r *KnownResolver) TryResolve(_ context.Context, name string) (types.FlavorProfile, bool) {
	if _, p, ok := r.kb.Lookup(name); ok {
		return p, true
	}
	if r.cache != nil {
		if p, ok := r.cache.Get(textnorm.Name(name)); ok {
			return p.WithSource(types.SourceCache), true
		}
	}
	return types.FlavorProfile{}, false
}

// SimilarityResolver borrows the profile of the closest knowledge base entry
// in embedding space when the similarity clears a threshold.
type SimilarityResolver struct {
	kb        *knowledge.Base
	provider  embedding.Provider
	threshold float64

	mu     sync.Mutex
	matrix []embedding.Vector
}

func NewSimilarityResolver(kb *knowledge.Base, provider embedding.Provider, threshold float64) *SimilarityResolver {
	return &SimilarityResolver{kb: kb, provider: provider, threshold: threshold}
}

func (r *SimilarityResolver) Name() string { return "similarity" }

// keyMatrix encodes every knowledge base key once. A failed attempt is retried
// on the next call.
func (r *SimilarityResolver) keyMatrix(ctx context.Context) ([]embedding.Vector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.matrix != nil {
		return r.matrix, nil
	}
	m, err := r.provider.EncodeBatch(ctx, r.kb.Keys())
	if err != nil {
		return nil, err
	}
	if len(m) != r.kb.Len() {
		return nil, fmt.Errorf("encoded %d of %d knowledge base keys", len(m), r.kb.Len())
	}
	r.matrix = m
	return m, nil
}

func (r *SimilarityResolver) TryResolve(ctx context.Context, name string) (types.FlavorProfile, bool) {
	if r.provider == nil {
		return types.FlavorProfile{}, false
	}
	log := logging.Ctx(ctx)

	matrix, err := r.keyMatrix(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode knowledge base keys")
		metrics.ProfilerTierFailures.WithLabelValues(r.Name()).Inc()
		return types.FlavorProfile{}, false
	}
	q, err := r.provider.Encode(ctx, textnorm.Name(name))
	if err != nil {
		log.Warn().Err(err).Str("ingredient", name).Msg("Failed to encode ingredient")
		metrics.ProfilerTierFailures.WithLabelValues(r.Name()).Inc()
		return types.FlavorProfile{}, false
	}

	idx, best := embedding.Max(embedding.CosineRow(q, matrix))
	if idx < 0 || best < r.threshold {
		log.Debug().Str("ingredient", name).Float64("best", best).Msg("No similar known ingredient")
		return types.FlavorProfile{}, false
	}

	key := r.kb.Keys()[idx]
	p, _ := r.kb.Get(key)
	p = p.WithSource(types.SourceSimilarity)
	score := best
	p.SimilarityScore = &score
	p.SimilarTo = key
	log.Debug().Str("ingredient", name).Str("similar_to", key).Float64("score", best).Msg("Similar ingredient found")
	return p, true
}

// GenerativeResolver asks a generative model to estimate the profile and
// writes successful answers through to the cache.
type GenerativeResolver struct {
	client  llm.Client
	models  []string
	cache   *Cache
	timeout time.Duration
	now     func() time.Time
}

func NewGenerativeResolver(client llm.Client, models []string, cache *Cache, timeout time.Duration) *GenerativeResolver {
	return &GenerativeResolver{client: client, models: models, cache: cache, timeout: timeout, now: time.Now}
}

func (r *GenerativeResolver) Name() string { return "gemini" }

type inferredProfile struct {
	Sweetness  float64 `json:"sweetness"`
	Acidity    float64 `json:"acidity"`
	Bitterness float64 `json:"bitterness"`
	Strength   float64 `json:"strength"`
	Freshness  float64 `json:"freshness"`
	Category   string  `json:"category"`
}

func acceptInferred(text string) error {
	return schemas.Validate(schemas.InferredProfile, []byte(llm.CleanJSONBlock(text)))
}

func (r *GenerativeResolver) TryResolve(ctx context.Context, name string) (types.FlavorProfile, bool) {
	if r.client == nil || len(r.models) == 0 {
		return types.FlavorProfile{}, false
	}
	log := logging.Ctx(ctx)

	prompt, err := prompts.Render("profiler.json", "infer-ingredient-profile", map[string]string{"Ingredient": name})
	if err != nil {
		log.Error().Err(err).Msg("Failed to load profiler prompt")
		return types.FlavorProfile{}, false
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	res, err := llm.GenerateJSONWithFallback(ctx, r.client, prompt, r.models, acceptInferred)
	if err != nil {
		log.Warn().Err(err).Str("ingredient", name).Msg("Generative profiling failed")
		metrics.ProfilerTierFailures.WithLabelValues(r.Name()).Inc()
		return types.FlavorProfile{}, false
	}

	var inf inferredProfile
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(res.Text)), &inf); err != nil {
		log.Warn().Err(err).Str("model", res.Model).Msg("Failed to decode inferred profile")
		metrics.ProfilerTierFailures.WithLabelValues(r.Name()).Inc()
		return types.FlavorProfile{}, false
	}

	now := r.now().UTC()
	p := types.FlavorProfile{
		Sweetness:  inf.Sweetness,
		Acidity:    inf.Acidity,
		Bitterness: inf.Bitterness,
		Strength:   inf.Strength,
		Freshness:  inf.Freshness,
		Category:   types.Category(inf.Category),
		Source:     types.SourceGemini,
		Model:      res.Model,
		Timestamp:  &now,
	}
	if p.Clamp() {
		log.Debug().Str("ingredient", name).Msg("Inferred profile clamped to flavor range")
	}
	if !p.Category.Valid() {
		p.Category = Categorize(name)
	}

	if r.cache != nil {
		if err := r.cache.Put(textnorm.Name(name), p); err != nil {
			log.Warn().Err(err).Msg("Failed to persist profile cache")
		}
	}
	log.Info().Str("ingredient", name).Str("model", res.Model).Msg("Ingredient profile inferred")
	return p, true
}

// FallbackResolver always succeeds with a keyword-derived category profile.
type FallbackResolver struct{}

func (FallbackResolver) Name() string { return "fallback" }

func (FallbackResolver) TryResolve(_ context.Context, name string) (types.FlavorProfile, bool) {
	return FallbackProfile(name), true
}
