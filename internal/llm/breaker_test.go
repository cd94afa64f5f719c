package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
)

func TestBreakerClient_OpensAfterFailures(t *testing.T) {
	down := errors.New("unavailable")
	inner := &scriptedClient{errs: map[string]error{"m": down}}
	b := NewBreakerClient(inner, BreakerSettings{
		Name:         "test-open",
		MinRequests:  3,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})

	for i := 0; i < 3; i++ {
		_, err := b.GenerateJSON(context.Background(), "p", "m")
		assert.ErrorIs(t, err, down)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.GenerateJSON(context.Background(), "p", "m")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, inner.calls, 3)
}

func TestBreakerClient_CancellationDoesNotTrip(t *testing.T) {
	inner := &scriptedClient{errs: map[string]error{"m": context.Canceled}}
	b := NewBreakerClient(inner, BreakerSettings{Name: "test-cancel", MinRequests: 1, FailureRatio: 0.1, OpenTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		_, _ = b.GenerateJSON(context.Background(), "p", "m")
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerClient_Delegates(t *testing.T) {
	inner := &scriptedClient{responses: map[string]string{"m": "{}"}}
	b := NewBreakerClient(inner, DefaultBreakerSettings())

	out, err := b.GenerateContent(context.Background(), "p", "m")
	assert.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, []string{"a", "b", "c"}, b.ModelChain(TierLite))
	assert.NoError(t, b.Close())
}
