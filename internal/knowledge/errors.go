package knowledge

import "fmt"

// LoadError represents an error reading, validating or decoding a knowledge base file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("knowledge base %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("knowledge base %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
