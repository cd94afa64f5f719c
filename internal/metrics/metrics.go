// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProfilerResolutions counts ingredient resolutions by the tier that answered.
	ProfilerResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_profiler_resolutions_total",
			Help: "Ingredient profile resolutions by source tier",
		},
		[]string{"source"},
	)

	// ProfilerTierFailures counts tier misses caused by errors (not plain misses).
	ProfilerTierFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_profiler_tier_failures_total",
			Help: "Profiler tier attempts that failed with an error",
		},
		[]string{"tier"},
	)

	GuardrailDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_guardrail_decisions_total",
			Help: "Relevance guardrail decisions by status",
		},
		[]string{"status"},
	)

	CoverageScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cocktail_coverage_score",
			Help:    "Distribution of computed coverage scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// RecipeCacheRequests counts recipe cache lookups by result (hit, miss, error).
	RecipeCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_recipe_cache_requests_total",
			Help: "Recipe cache lookups by result",
		},
		[]string{"backend", "result"},
	)

	RecipesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_recipes_generated_total",
			Help: "Recipes produced by source",
		},
		[]string{"source"},
	)

	EmbeddingCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_embedding_cache_requests_total",
			Help: "Embedding vector cache lookups by layer and result",
		},
		[]string{"layer", "result"},
	)

	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_llm_requests_total",
			Help: "Generative model calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cocktail_llm_request_duration_seconds",
			Help:    "Generative model call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"model"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cocktail_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocktail_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cocktail_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)
