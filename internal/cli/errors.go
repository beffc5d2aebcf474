package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	// ExitFailure reports a usage, configuration or runtime error.
	ExitFailure = 1

	// ExitGateFailed reports a completed run that did not pass its gate:
	// score below --min-score, or linter errors with --fail-on-error or
	// in lint mode.
	ExitGateFailed = 2
)

// Sentinel errors for gate failures.
var (
	ErrBelowMinScore = errors.New("score below minimum")
	ErrLintErrors    = errors.New("linter reported errors")
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// gateError wraps a gate failure in an ExitError with ExitGateFailed.
func gateError(sentinel error, format string, args ...any) error {
	return &ExitError{
		Code: ExitGateFailed,
		Err:  fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// ExitCode returns the exit code for err: 0 for nil, the code of an
// ExitError, and ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
