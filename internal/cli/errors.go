package cli

import "fmt"

// ExitError signals a command failure with a specific exit code.
//
// Cobra RunE functions return this instead of calling os.Exit directly,
// so tests can assert on exit codes without process termination. The code
// propagates up to [RunWithConfig], which extracts it via [IsExitError].
type ExitError struct {
	// Code is the exit code to return to the shell.
	Code int
}

// Error returns "exit status N", matching the os/exec convention.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError reports whether err is an [ExitError], returning its code.
func IsExitError(err error) (int, bool) {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code, true
	}
	return 0, false
}
