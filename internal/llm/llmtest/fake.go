// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/cocktail-advisor/internal/llm"
)

// Fake answers GenerateJSON with canned text per model. Models without a
// response return an empty string.
type Fake struct {
	Responses map[string]string
	Errs      map[string]error
	// Block makes every call wait for context cancellation.
	Block bool
	Chain []string

	mu      sync.Mutex
	calls   []string
	prompts []string
}

// New returns a Fake with the given responses.
func New(responses map[string]string) *Fake {
	return &Fake{Responses: responses, Errs: map[string]error{}}
}

func (f *Fake) GenerateContent(ctx context.Context, prompt string, model string) (string, error) {
	return f.GenerateJSON(ctx, prompt, model)
}

func (f *Fake) GenerateJSON(ctx context.Context, prompt string, model string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, model)
	f.prompts = append(f.prompts, prompt)
	block := f.Block
	err := f.Errs[model]
	resp := f.Responses[model]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

func (f *Fake) ModelChain(llm.ModelTier) []string {
	return f.Chain
}

func (f *Fake) Close() error { return nil }

// Calls returns the models called, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// LastPrompt returns the most recent prompt, or "".
func (f *Fake) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}
