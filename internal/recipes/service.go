package recipes

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// RelevanceChecker gates queries before generation.
type RelevanceChecker interface {
	Check(ctx context.Context, text string) (types.RelevanceResult, error)
}

// QueryScorer scores a query against preferences.
type QueryScorer interface {
	Score(ctx context.Context, query string, prefs types.Preferences) (types.ScoringResult, error)
}

// Options wires the service. Generator, Store and Scorer are optional.
type Options struct {
	Guardrail         RelevanceChecker
	Generator         *Generator
	Store             Store
	StoreName         string
	Scorer            QueryScorer
	GenerationTimeout time.Duration
}

// Result is the outcome of a recipe request. Off-topic queries have status
// error, a message and no recipe.
type Result struct {
	Status          types.RelevanceStatus `json:"status"`
	Message         string                `json:"message,omitempty"`
	Similarity      float64               `json:"similarity"`
	Recipe          *types.Recipe         `json:"recipe,omitempty"`
	Cached          bool                  `json:"cached"`
	Scoring         *types.ScoringResult  `json:"scoring,omitempty"`
	ProgressionPlan *scoring.Plan         `json:"progression_plan,omitempty"`
	TasteBio        *scoring.Bio          `json:"taste_bio,omitempty"`
}

// Service runs the recipe pipeline: guardrail, cache, generation, fallback,
// save, then scoring.
type Service struct {
	opts Options
	now  func() time.Time
}

// NewService returns a recipe service.
func NewService(opts Options) *Service {
	if opts.StoreName == "" {
		opts.StoreName = "none"
	}
	return &Service{opts: opts, now: time.Now}
}

// Recipe answers a drink request. Short accepted queries are enriched with the
// preference descriptors before the cache lookup, generation and scoring. The
// error is reserved for guardrail failures; cache, model and scoring problems
// degrade gracefully.
func (s *Service) Recipe(ctx context.Context, query string, prefs types.Preferences) (Result, error) {
	log := logging.Ctx(ctx)

	rel, err := s.opts.Guardrail.Check(ctx, query)
	if err != nil {
		return Result{}, err
	}
	if !rel.Accepted() {
		return Result{Status: rel.Status, Message: rel.Message, Similarity: rel.Similarity}, nil
	}
	res := Result{Status: types.RelevanceOK, Similarity: rel.Similarity}

	enriched := scoring.EnrichShortQuery(strings.TrimSpace(query), prefs)
	key := CacheKey(enriched)
	if recipe := s.lookup(ctx, key); recipe != nil {
		log.Info().Str("recipe", recipe.Name).Msg("Recipe served from cache")
		res.Recipe = recipe
		res.Cached = true
	} else {
		res.Recipe = s.generate(ctx, query, enriched, prefs)
		s.save(ctx, key, res.Recipe)
	}

	s.attachScoring(ctx, &res, enriched, prefs)
	return res, nil
}

func (s *Service) lookup(ctx context.Context, key string) *types.Recipe {
	if s.opts.Store == nil {
		return nil
	}
	r, err := s.opts.Store.GetRecipe(ctx, key)
	switch {
	case err != nil:
		logging.Ctx(ctx).Warn().Err(err).Str("backend", s.opts.StoreName).Msg("Recipe cache read failed")
		metrics.RecipeCacheRequests.WithLabelValues(s.opts.StoreName, "error").Inc()
		return nil
	case r == nil:
		metrics.RecipeCacheRequests.WithLabelValues(s.opts.StoreName, "miss").Inc()
		return nil
	default:
		metrics.RecipeCacheRequests.WithLabelValues(s.opts.StoreName, "hit").Inc()
		return r
	}
}

// generate asks the model with the enriched query. The keyword fallback only
// looks at the raw request, since mitigating descriptors such as "peu sucre"
// would otherwise select the matching style.
func (s *Service) generate(ctx context.Context, query, enriched string, prefs types.Preferences) *types.Recipe {
	log := logging.Ctx(ctx)
	if s.opts.Generator != nil {
		gctx := ctx
		if s.opts.GenerationTimeout > 0 {
			var cancel context.CancelFunc
			gctx, cancel = context.WithTimeout(ctx, s.opts.GenerationTimeout)
			defer cancel()
		}
		r, err := s.opts.Generator.Generate(gctx, enriched, prefs)
		if err == nil {
			log.Info().Str("recipe", r.Name).Str("model", r.Model).Msg("Recipe generated")
			metrics.RecipesGenerated.WithLabelValues(string(types.RecipeSourceGemini)).Inc()
			return r
		}
		log.Warn().Err(err).Msg("Recipe generation failed, using fallback")
	}

	r := FallbackRecipe(query, s.now())
	r.Query = enriched
	metrics.RecipesGenerated.WithLabelValues(string(types.RecipeSourceFallback)).Inc()
	return r
}

func (s *Service) save(ctx context.Context, key string, r *types.Recipe) {
	if s.opts.Store == nil {
		return
	}
	if err := s.opts.Store.PutRecipe(ctx, key, r); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("backend", s.opts.StoreName).Msg("Recipe cache write failed")
	}
}

func (s *Service) attachScoring(ctx context.Context, res *Result, query string, prefs types.Preferences) {
	if s.opts.Scorer == nil {
		return
	}
	sc, err := s.opts.Scorer.Score(ctx, query, prefs)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Scoring failed")
		return
	}
	plan := scoring.ProgressionPlan(res.Recipe.Name, sc)
	bio := scoring.TasteBio(prefs, sc.BlockScores)
	res.Scoring = &sc
	res.ProgressionPlan = &plan
	res.TasteBio = &bio
}

// CountCached returns the number of cached recipes, or 0 without a store.
func (s *Service) CountCached(ctx context.Context) (int, error) {
	if s.opts.Store == nil {
		return 0, nil
	}
	return s.opts.Store.CountRecipes(ctx)
}
