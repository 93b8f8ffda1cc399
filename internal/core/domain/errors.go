package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedProvider indicates an unknown provider, or a provider
	// that does not support the requested operation.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// Authorization Errors.

	// ErrCsrfMismatch indicates the state returned by the provider did not
	// match the pending state. The authorization is abandoned.
	ErrCsrfMismatch = errors.New("invalid state parameter (CSRF protection)")

	// ErrNotConnected indicates an operation required a credential but none exists.
	ErrNotConnected = errors.New("not connected")

	// ErrNotAuthorized indicates a webhook was requested for a provider
	// without an active credential.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrAuth indicates a token exchange, revocation or provider call failed.
	// Returned errors wrap it through AuthError.
	ErrAuth = errors.New("authorization failed")

	// Storage Errors.

	// ErrStorageCorrupt indicates a persisted value could not be decoded.
	// Readers recover by treating the value as absent.
	ErrStorageCorrupt = errors.New("storage corrupt")
)

// AuthError wraps a failure reported by a provider gateway.
// It matches ErrAuth with errors.Is and unwraps to the underlying cause.
type AuthError struct {
	Provider Provider
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAuth.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// NewAuthError wraps err as a gateway failure for provider.
func NewAuthError(provider Provider, op string, err error) error {
	return &AuthError{Provider: provider, Op: op, Err: err}
}
