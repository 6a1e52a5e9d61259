package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/albertocavalcante/srcheaders/pkg/source"
)

// Exit codes from sysexits.h.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitDataErr = 65 // EX_DATAERR: wrong extension, unreadable file
	ExitNoInput = 66 // EX_NOINPUT: file not found
)

// ExitError is an error reported as "ERROR: <msg>" with a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// sourceExitError maps a source loading error to its exit code.
func sourceExitError(err error) *ExitError {
	if errors.Is(err, source.ErrFileNotFound) {
		return &ExitError{Code: ExitNoInput, Err: err}
	}
	return &ExitError{Code: ExitDataErr, Err: err}
}

// report prints err and returns the process exit code for it.
func report(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintf(stdout, "ERROR: %s\n", exitErr.Err)
		return exitErr.Code
	}

	fmt.Fprintf(stderr, "Error: %s\n", err)
	return ExitFailure
}
