package llm

import (
	"context"
	"strings"

	"github.com/jonathan/cocktail-advisor/internal/logging"
)

// Result is a successful generation from one model of a chain.
type Result struct {
	Text  string
	Model string
}

// AcceptFunc validates a raw response; a non-nil error moves on to the next model.
type AcceptFunc func(text string) error

// GenerateJSONWithFallback tries each model in order and returns the first
// response that is non-empty and passes accept. Context cancellation stops the
// chain immediately. When every model fails the error is an *ExhaustedError.
func GenerateJSONWithFallback(ctx context.Context, client Client, prompt string, models []string, accept AcceptFunc) (Result, error) {
	exhausted := &ExhaustedError{}
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			exhausted.Attempts = append(exhausted.Attempts, err)
			return Result{}, exhausted
		}

		text, err := client.GenerateJSON(ctx, prompt, model)
		if err == nil && strings.TrimSpace(text) == "" {
			err = &ParseError{Model: model, Message: "empty response"}
		}
		if err == nil && accept != nil {
			if aerr := accept(text); aerr != nil {
				err = &ParseError{Model: model, Message: "rejected response", Cause: aerr}
			}
		}
		if err == nil {
			return Result{Text: text, Model: model}, nil
		}

		logging.Ctx(ctx).Debug().Err(err).Str("model", model).Msg("model attempt failed")
		exhausted.Attempts = append(exhausted.Attempts, err)
	}
	return Result{}, exhausted
}
