// Package advisor builds and owns every component of the cocktail advisor
// from a loaded configuration: knowledge base, embedder, model client,
// profiler, guardrail, scorer and recipe service.
package advisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/cocktail-advisor/internal/config"
	"github.com/jonathan/cocktail-advisor/internal/db"
	"github.com/jonathan/cocktail-advisor/internal/embedding"
	"github.com/jonathan/cocktail-advisor/internal/guardrail"
	"github.com/jonathan/cocktail-advisor/internal/knowledge"
	"github.com/jonathan/cocktail-advisor/internal/llm"
	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/profiler"
	"github.com/jonathan/cocktail-advisor/internal/recipes"
	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/storage"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// Advisor is the application context. Build it once and share it; every
// component is safe for concurrent use.
type Advisor struct {
	Config    *config.Config
	KB        *knowledge.Base
	Embedder  embedding.Provider
	LLM       llm.Client // nil without an API key
	Profiler  *profiler.Profiler
	Guardrail *guardrail.Guardrail
	Scorer    *scoring.Scorer
	Recipes   *recipes.Service

	closers []func() error
}

// Build wires the application from cfg. On error everything opened so far is
// closed.
func Build(ctx context.Context, cfg *config.Config) (_ *Advisor, err error) {
	a := &Advisor{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.KB, err = knowledge.Load(cfg.Knowledge.Path)
	if err != nil {
		return nil, err
	}
	logging.Info().Int("ingredients", a.KB.Len()).Str("path", a.KB.Path()).Msg("Knowledge base loaded")

	var gemini *llm.GeminiClient
	if cfg.HasAPIKey() {
		gemini, err = llm.NewClient(ctx, modelConfig(cfg), cfg.LLM.APIKey)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, gemini.Close)
		a.LLM = gemini
		if cfg.LLM.Breaker.Enabled {
			a.LLM = llm.NewBreakerClient(gemini, llm.BreakerSettings{
				Name:         "gemini",
				MinRequests:  cfg.LLM.Breaker.MinRequests,
				FailureRatio: cfg.LLM.Breaker.FailureRatio,
				OpenTimeout:  cfg.LLM.Breaker.OpenTimeout,
				Interval:     cfg.LLM.Breaker.OpenTimeout,
			})
		}
	} else {
		logging.Warn().Msg("No API key configured, generative features disabled")
	}

	var vectorDB *storage.SQLite
	if cfg.Embedding.CachePath != "" {
		var sopts storage.Options
		if sharesVectorDB(cfg) {
			sopts.MaxRecipes = cfg.Recipes.MaxEntries
		}
		vectorDB, err = storage.Open(ctx, cfg.Embedding.CachePath, sopts)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, vectorDB.Close)
	}

	var inner embedding.Provider
	switch cfg.EmbeddingProvider() {
	case "gemini":
		if gemini == nil {
			return nil, errors.New("embedding provider 'gemini' requires an API key")
		}
		inner = embedding.NewGeminiProvider(gemini)
	default:
		inner = embedding.NewLexicalProvider(cfg.Embedding.Dimensions)
	}
	if vectorDB != nil {
		a.Embedder = embedding.NewCachedProvider(inner, vectorDB)
	} else {
		a.Embedder = embedding.NewCachedProvider(inner, nil)
	}
	logging.Info().Str("model", a.Embedder.Model()).Msg("Embedding provider ready")

	opts := profiler.Options{
		Embedder:            a.Embedder,
		SimilarityThreshold: cfg.Profiler.SimilarityThreshold,
		GenerativeTimeout:   cfg.Profiler.GenerativeTimeout,
		CacheFallback:       cfg.Profiler.CacheFallback,
		Concurrency:         cfg.Profiler.Concurrency,
	}
	if a.LLM != nil {
		opts.LLM = a.LLM
		opts.Models = a.LLM.ModelChain(llm.TierLite)
	}
	a.Profiler = profiler.New(a.KB, profiler.OpenCache(cfg.Profiler.CachePath), opts)

	a.Guardrail = guardrail.New(a.Embedder)
	a.Scorer = scoring.New(a.Embedder)

	store, err := a.openRecipeStore(ctx, vectorDB)
	if err != nil {
		return nil, err
	}
	var gen *recipes.Generator
	if a.LLM != nil {
		gen = recipes.NewGenerator(a.LLM, a.LLM.ModelChain(llm.TierStandard))
	}
	a.Recipes = recipes.NewService(recipes.Options{
		Guardrail:         a.Guardrail,
		Generator:         gen,
		Store:             store,
		StoreName:         cfg.Recipes.Backend,
		Scorer:            a.Scorer,
		GenerationTimeout: cfg.Recipes.GenerationTimeout,
	})

	return a, nil
}

// openRecipeStore returns the configured recipe cache backend, or nil for
// "none". The sqlite backend reuses the vector cache database when both point
// at the same file.
func (a *Advisor) openRecipeStore(ctx context.Context, vectorDB *storage.SQLite) (recipes.Store, error) {
	rc := a.Config.Recipes
	switch rc.Backend {
	case "file":
		return recipes.NewFileStore(rc.Path, rc.MaxEntries), nil
	case "sqlite":
		if vectorDB != nil && sharesVectorDB(a.Config) {
			return vectorDB, nil
		}
		s, err := storage.Open(ctx, rc.Path, storage.Options{MaxRecipes: rc.MaxEntries})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		return s, nil
	case "postgres":
		pg, err := db.Connect(ctx, rc.DatabaseURL, rc.MaxEntries)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { pg.Close(); return nil })
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, nil
	}
}

func sharesVectorDB(cfg *config.Config) bool {
	return cfg.Recipes.Backend == "sqlite" && cfg.Recipes.Path == cfg.Embedding.CachePath
}

// modelConfig maps the configured model chains onto llm tiers: profile
// inference runs on the lite tier, recipes on the standard tier.
func modelConfig(cfg *config.Config) *llm.Config {
	mc := llm.DefaultConfig()
	mc.EmbeddingModel = cfg.LLM.EmbeddingModel
	mc.Temperature = float32(cfg.LLM.Temperature)
	chains := map[llm.ModelTier][]string{
		llm.TierLite:     mc.Chains[llm.TierLite],
		llm.TierStandard: mc.Chains[llm.TierStandard],
	}
	if m := cfg.LLM.ProfileModels; len(m) > 0 {
		mc = mc.WithModel(llm.TierLite, m[0])
		chains[llm.TierLite] = m[1:]
	}
	if m := cfg.LLM.RecipeModels; len(m) > 0 {
		mc = mc.WithModel(llm.TierStandard, m[0])
		chains[llm.TierStandard] = m[1:]
	}
	mc.Chains = chains
	return mc
}

// Stats summarizes the running application.
type Stats struct {
	Profiler       profiler.Stats         `json:"profiler"`
	Categories     map[types.Category]int `json:"categories"`
	Aliases        int                    `json:"aliases"`
	CachedRecipes  int                    `json:"cached_recipes"`
	RecipeBackend  string                 `json:"recipe_backend"`
	EmbeddingModel string                 `json:"embedding_model"`
	Generative     bool                   `json:"generative"`
}

// Stats gathers counters from every component. A failing recipe store
// reports zero cached recipes.
func (a *Advisor) Stats(ctx context.Context) Stats {
	n, err := a.Recipes.CountCached(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to count cached recipes")
	}
	return Stats{
		Profiler:       a.Profiler.Stats(),
		Categories:     a.KB.CountByCategory(),
		Aliases:        a.KB.AliasCount(),
		CachedRecipes:  n,
		RecipeBackend:  a.Config.Recipes.Backend,
		EmbeddingModel: a.Embedder.Model(),
		Generative:     a.LLM != nil,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *Advisor) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("failed to close advisor: %w", errors.Join(errs...))
	}
	return nil
}
