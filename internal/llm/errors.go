package llm

import (
	"fmt"
	"strings"
)

// APICallError represents an error from the model provider
type APICallError struct {
	Model   string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call to %s failed: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("API call to %s failed: %s", e.Model, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error interpreting a model response
type ParseError struct {
	Model   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error from %s: %s: %v", e.Model, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error from %s: %s", e.Model, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ExhaustedError is returned when every model in a chain failed.
type ExhaustedError struct {
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "no models configured"
	}
	msgs := make([]string, len(e.Attempts))
	for i, err := range e.Attempts {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("all %d models failed: %s", len(e.Attempts), strings.Join(msgs, "; "))
}

// Unwrap exposes every attempt to errors.Is / errors.As.
func (e *ExhaustedError) Unwrap() []error {
	return e.Attempts
}
