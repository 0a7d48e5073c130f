package cli

import (
	"errors"

	"github.com/tasha-health/ragindex/internal/core/domain"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitUsage          = 1
	ExitSourceNotFound = 2
	ExitSourceEmpty    = 3
	ExitStoreFailure   = 4
)

// ExitCode maps an error returned by a command to a process exit code.
// Errors that match no domain failure are usage errors.
func ExitCode(err error) int {
	var swe *domain.StoreWriteError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &swe):
		return ExitStoreFailure
	case errors.Is(err, domain.ErrSourceNotFound):
		return ExitSourceNotFound
	case errors.Is(err, domain.ErrSourceEmpty):
		return ExitSourceEmpty
	default:
		return ExitUsage
	}
}
