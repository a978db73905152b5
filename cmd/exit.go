package cmd

import (
	"errors"

	"github.com/bnema/fido-usage-cli/internal/domain"
)

const (
	exitOK                   = 0
	exitFailure              = 1
	exitMissingAccessToken   = 2
	exitMissingAccountNumber = 3
)

// ExitCode maps a command error to the process exit status. Login failures
// get their own codes so scripts can tell a rejected password (no access
// token) from an account the portal did not return.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Step {
		case domain.AuthStepAccessToken:
			return exitMissingAccessToken
		case domain.AuthStepAccountNumber:
			return exitMissingAccountNumber
		}
	}

	return exitFailure
}
