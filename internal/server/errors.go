package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadRequest indicates a request body that could not be decoded
type ErrBadRequest struct {
	Cause error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Cause)
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Cause
}

// ErrUnavailable wraps a failure of the embedding backend behind a request.
type ErrUnavailable struct {
	Cause error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("service unavailable: %v", e.Cause)
}

func (e *ErrUnavailable) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var verr *ErrValidation
	var berr *ErrBadRequest
	var uerr *ErrUnavailable
	switch {
	case errors.As(err, &verr), errors.As(err, &berr):
		return http.StatusBadRequest
	case errors.As(err, &uerr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts the first validator failure into an ErrValidation.
func validationError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed '%s' check", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
