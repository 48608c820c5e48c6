// Package llmclient wraps model backends behind a minimal JSON-generation
// interface. Cross-cutting concerns (retries, logging) are middleware.
package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidJSON is returned when a backend produced no usable JSON payload.
var ErrInvalidJSON = errors.New("invalid json from LLM")

// LLMClient is the narrow surface agents invoke through.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
