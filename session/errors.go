package session

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrNotInitialized is returned by SignIn when Initialize has not completed.
	ErrNotInitialized = errors.New("session not initialized")

	// ErrNotAuthenticated is returned when a credential is requested from a signed out session.
	ErrNotAuthenticated = errors.New("session not authenticated")
)

// InitializationError reports a failure to load or configure the identity provider.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("failed to initialize identity provider (%v)", e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// SignInError reports a failed credential acquisition, e.g. the user declined access
// ('access_denied') or the provider returned an error.
type SignInError struct {
	Reason string
	Err    error
}

func (e *SignInError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sign-in failed: %s (%v)", e.Reason, e.Err)
	}

	return fmt.Sprintf("sign-in failed: %s", e.Reason)
}

func (e *SignInError) Unwrap() error {
	return e.Err
}

// ProviderError is the error a provider delivers to the token callback when the
// authorization server responds with an OAuth2 error code.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}

	return e.Code
}

func reason(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Code
	}

	return "provider error"
}
