package llm

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
)

// BreakerSettings tunes the circuit breaker placed in front of a Client.
type BreakerSettings struct {
	Name string
	// MinRequests is the request count before the failure ratio is considered.
	MinRequests uint32
	// FailureRatio in (0,1] that opens the circuit.
	FailureRatio float64
	// OpenTimeout is how long the circuit stays open before probing.
	OpenTimeout time.Duration
	// Interval resets the closed-state counters.
	Interval time.Duration
}

// DefaultBreakerSettings returns conservative settings for a remote model API.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "gemini",
		MinRequests:  5,
		FailureRatio: 0.6,
		OpenTimeout:  time.Minute,
		Interval:     time.Minute,
	}
}

// BreakerClient wraps a Client with a circuit breaker. When the circuit is
// open calls fail fast with gobreaker.ErrOpenState.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[string]
	name string
}

// NewBreakerClient wraps next with a circuit breaker.
func NewBreakerClient(next Client, s BreakerSettings) *BreakerClient {
	if s.Name == "" {
		s.Name = "llm"
	}
	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		// Caller cancellation says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerClient{next: next, cb: cb, name: s.Name}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// GenerateContent runs the wrapped call through the breaker.
func (b *BreakerClient) GenerateContent(ctx context.Context, prompt string, model string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.GenerateContent(ctx, prompt, model)
	})
}

// GenerateJSON runs the wrapped call through the breaker.
func (b *BreakerClient) GenerateJSON(ctx context.Context, prompt string, model string) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.GenerateJSON(ctx, prompt, model)
	})
}

// ModelChain delegates to the wrapped client.
func (b *BreakerClient) ModelChain(tier ModelTier) []string {
	return b.next.ModelChain(tier)
}

// State reports the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// Close closes the wrapped client.
func (b *BreakerClient) Close() error {
	return b.next.Close()
}
