package cli

import (
	"errors"

	"github.com/shadanan/mathmate/internal/configloader"
)

// Exit codes for mathmate.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFormatNeeded indicates --check found files that need formatting.
	ExitFormatNeeded = 1

	// ExitUsageError indicates invalid usage or configuration.
	ExitUsageError = 2

	// ExitRuntimeError indicates a failure while formatting.
	ExitRuntimeError = 3
)

var (
	// ErrFormatNeeded is returned by format --check when any input would
	// change.
	ErrFormatNeeded = errors.New("formatting needed")

	// ErrUsage marks invalid flags, arguments or configuration.
	ErrUsage = errors.New("invalid usage")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFormatNeeded):
		return ExitFormatNeeded
	case errors.Is(err, ErrUsage), errors.As(err, &validation):
		return ExitUsageError
	default:
		return ExitRuntimeError
	}
}
