// Package profiler resolves any ingredient name into a flavor profile through
// a chain of tiers: known ingredients, embedding similarity, generative
// inference and a keyword fallback.
package profiler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
	"github.com/jonathan/cocktail-advisor/internal/knowledge"
	"github.com/jonathan/cocktail-advisor/internal/llm"
	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
	"github.com/jonathan/cocktail-advisor/internal/textnorm"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// DefaultSimilarityThreshold is the minimum cosine similarity for borrowing a
// known ingredient's profile.
const DefaultSimilarityThreshold = 0.75

// Options configures the optional tiers. A nil Embedder or LLM skips the
// corresponding tier.
type Options struct {
	Embedder            embedding.Provider
	LLM                 llm.Client
	Models              []string
	SimilarityThreshold float64
	GenerativeTimeout   time.Duration
	// CacheFallback persists keyword-fallback profiles as well.
	CacheFallback bool
	Concurrency   int
}

// Stats summarizes the profiler state.
type Stats struct {
	KnownCount   int                  `json:"known_count"`
	CacheSize    int                  `json:"cache_size"`
	TotalKnown   int                  `json:"total_known"`
	Resolutions  map[types.Source]int `json:"resolutions"`
	CacheSources map[types.Source]int `json:"cache_sources"`
	Tiers        []string             `json:"tiers"`
}

// Profiler runs the resolver chain. It is safe for concurrent use.
type Profiler struct {
	kb            *knowledge.Base
	cache         *Cache
	chain         []Resolver
	cacheFallback bool
	concurrency   int

	mu     sync.Mutex
	counts map[types.Source]int
}

// New builds a profiler over kb and cache.
func New(kb *knowledge.Base, cache *Cache, opts Options) *Profiler {
	if cache == nil {
		cache = OpenCache("")
	}
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	chain := []Resolver{NewKnownResolver(kb, cache)}
	if opts.Embedder != nil {
		chain = append(chain, NewSimilarityResolver(kb, opts.Embedder, opts.SimilarityThreshold))
	}
	if opts.LLM != nil {
		chain = append(chain, NewGenerativeResolver(opts.LLM, opts.Models, cache, opts.GenerativeTimeout))
	}
	chain = append(chain, FallbackResolver{})

	return NewWithChain(kb, cache, chain, opts)
}

// NewWithChain builds a profiler with an explicit resolver chain. The chain
// should end with a resolver that always succeeds.
func NewWithChain(kb *knowledge.Base, cache *Cache, chain []Resolver, opts Options) *Profiler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Profiler{
		kb:            kb,
		cache:         cache,
		chain:         chain,
		cacheFallback: opts.CacheFallback,
		concurrency:   opts.Concurrency,
		counts:        make(map[types.Source]int),
	}
}

// Resolve returns a profile for name. It never fails: the last tier always
// answers.
func (p *Profiler) Resolve(ctx context.Context, name string) types.FlavorProfile {
	for _, r := range p.chain {
		prof, ok := r.TryResolve(ctx, name)
		if !ok {
			continue
		}
		if prof.Source == types.SourceFallback && p.cacheFallback {
			if err := p.cache.Put(textnorm.Name(name), prof); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("Failed to persist profile cache")
			}
		}
		p.record(prof.Source)
		logging.Ctx(ctx).Debug().Str("ingredient", name).Str("source", string(prof.Source)).
			Str("category", string(prof.Category)).Msg("Ingredient resolved")
		return prof
	}

	prof := FallbackProfile(name)
	p.record(prof.Source)
	return prof
}

func (p *Profiler) record(src types.Source) {
	metrics.ProfilerResolutions.WithLabelValues(string(src)).Inc()
	p.mu.Lock()
	p.counts[src]++
	p.mu.Unlock()
}

// NamedProfile pairs an input name with its resolved profile.
type NamedProfile struct {
	Name    string              `json:"name"`
	Profile types.FlavorProfile `json:"profile"`
}

// ProfileBatch resolves names concurrently and returns results in input order.
func (p *Profiler) ProfileBatch(ctx context.Context, names []string) ([]NamedProfile, error) {
	out := make([]NamedProfile, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = NamedProfile{Name: name, Profile: p.Resolve(gctx, name)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns a snapshot of knowledge, cache and resolution counters.
func (p *Profiler) Stats() Stats {
	p.mu.Lock()
	counts := make(map[types.Source]int, len(p.counts))
	for k, v := range p.counts {
		counts[k] = v
	}
	p.mu.Unlock()

	tiers := make([]string, len(p.chain))
	for i, r := range p.chain {
		tiers[i] = r.Name()
	}

	known := p.kb.Len()
	size := p.cache.Len()
	return Stats{
		KnownCount:   known,
		CacheSize:    size,
		TotalKnown:   known + size,
		Resolutions:  counts,
		CacheSources: p.cache.CountBySource(),
		Tiers:        tiers,
	}
}
