package filter

import "fmt"

// CompilationError represents a filter expression that failed to compile
type CompilationError struct {
	Expression string
	Reason     string
	Err        error
}

// Error implements the error interface
func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid filter %q: %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid filter %q: %s", e.Expression, e.Reason)
}

// Unwrap returns the underlying compiler error
func (e *CompilationError) Unwrap() error {
	return e.Err
}
