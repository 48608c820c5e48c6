// Package agent defines agent specs as immutable value objects and the
// Invoker capability the workflow orchestrator drives them through. Specs
// are constructed by per-run factories, never as package-level singletons,
// so concurrent runs and tests share no hidden mutable state.
package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Spec is one configured LLM-invocation step: the model, instructions, and
// the output field the step produces.
type Spec struct {
	Name        string
	Model       string
	Description string
	Instruction string
	OutputField string
	Temperature float64
	// Retrieval query hints resolved against the run's index before the
	// call; results are attached to the invocation input.
	ResumeQueries []string
	JobQueries    []string
}

// Hash is a stable digest of the spec, used to key the prompt cache.
func (s Spec) Hash() string {
	b, _ := json.Marshal(s)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Event is one element of an invocation's output stream. Only the last
// event with Final set is consumed downstream.
type Event struct {
	Final      bool
	Structured map[string]any
	Text       string
}

// Invoker runs one agent spec against its context and yields an event
// stream. The channel is closed when the invocation completes; a stream
// that closes without a final event counts as a failed invocation.
type Invoker interface {
	Invoke(ctx context.Context, spec Spec, input map[string]any) (<-chan Event, error)
}
