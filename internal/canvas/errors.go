package canvas

import (
	"errors"
	"fmt"
)

// Failures cross the component boundary as explicit values so callers can
// render inline messages without tearing down the workspace session.

// PreconditionError means the operation was refused before any mutation,
// e.g. description generation with no ready script in the graph.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

func NewPreconditionError(format string, args ...any) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err is a refused-precondition failure.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// GenerationError wraps a failure from the external generation collaborator.
// The target node keeps its prior state; the user may retry.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generation failed: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }

func NewGenerationError(err error) error {
	if err == nil {
		return nil
	}
	return &GenerationError{Err: err}
}

// IsGenerationFailure reports whether err came from the generation collaborator.
func IsGenerationFailure(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// PersistenceError wraps a failed graph save. Non-fatal for the in-memory
// session: the next mutation burst re-snapshots and retries naturally.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "persist graph: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Err: err}
}
