package orchestrator

import (
	"errors"
	"fmt"
)

// Non-standard status codes used by the boundary to distinguish invalid
// prompt configurations per prompt type.
const (
	StatusInvalidCompletionPrompt = 432
	StatusInvalidEnrichmentPrompt = 433
)

// ErrUnresolvableReference marks an LLM reply citing a reference number that
// does not exist in the supplied evidence. This is a backend contract
// violation, never silently dropped.
var ErrUnresolvableReference = errors.New("llm returned an unresolvable reference")

// PipelineError is a client-visible configuration or validation failure. It
// carries the HTTP-equivalent status the transport should respond with.
type PipelineError struct {
	Status  int
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error { return e.Err }

func newConfigError(status int, format string, args ...any) *PipelineError {
	return &PipelineError{Status: status, Message: fmt.Sprintf(format, args...)}
}
