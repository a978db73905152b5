package domain

import (
	"errors"
	"fmt"
)

var (
	ErrLineNotFound   = errors.New("line not found")
	ErrSecretNotFound = errors.New("secret not found")
)

// AuthStep identifies the login handshake step that did not yield what the
// next step needs.
type AuthStep int

const (
	AuthStepAccessToken AuthStep = iota + 2
	AuthStepAccountNumber
)

func (s AuthStep) String() string {
	switch s {
	case AuthStepAccessToken:
		return "access token"
	case AuthStepAccountNumber:
		return "account number"
	default:
		return fmt.Sprintf("step %d", int(s))
	}
}

type AuthError struct {
	Step   AuthStep
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("login failed: missing %s", e.Step)
	}
	return fmt.Sprintf("login failed: missing %s: %s", e.Step, e.Reason)
}

// NormalizationError reports the first lookup into the usage payload that
// did not match the expected shape.
type NormalizationError struct {
	Path   string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize usage: %s: %s", e.Path, e.Reason)
}
