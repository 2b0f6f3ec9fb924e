package filter

import (
	"fmt"
)

// Error types for filter operations
type (
	// CompilationError indicates a route expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Position   int // -1 if position is unknown
		Err        error
	}

	// EvaluationError indicates a route could not be evaluated against a message
	EvaluationError struct {
		RouteID    string
		Expression string
		Reason     string
		Err        error
	}
)

func (e *CompilationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("compilation error at position %d in '%s': %s", e.Position, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	if e.RouteID == "" {
		return fmt.Sprintf("evaluation error in '%s': %s", e.Expression, e.Reason)
	}
	return fmt.Sprintf("evaluation error for route '%s': %s", e.RouteID, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
