package cmd

import "fmt"

// Exit codes for reqsuite CLI
const (
	// ExitSuccess indicates all cases passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more cases failed or the run was canceled
	ExitTestFailure = 1

	// ExitInvalidSuite indicates a suite that cannot be parsed or fails validation
	ExitInvalidSuite = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// errTestsFailed is returned when the run completed with failures. It
// has nothing to print; the report already says what failed.
var errTestsFailed = &exitError{code: ExitTestFailure}
