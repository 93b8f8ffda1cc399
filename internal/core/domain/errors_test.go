package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnsupportedProvider", ErrUnsupportedProvider},
		{"ErrCsrfMismatch", ErrCsrfMismatch},
		{"ErrNotConnected", ErrNotConnected},
		{"ErrNotAuthorized", ErrNotAuthorized},
		{"ErrAuth", ErrAuth},
		{"ErrStorageCorrupt", ErrStorageCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
	assert.False(t, errors.Is(ErrNotAuthorized, ErrNotConnected))
	assert.False(t, errors.Is(ErrCsrfMismatch, ErrAuth))
}

func TestAuthError_MatchesErrAuth(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAuthError(ProviderGitHub, "exchange code", cause)

	assert.ErrorIs(t, err, ErrAuth)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "github exchange code: connection refused", err.Error())
}

func TestAuthError_As(t *testing.T) {
	err := fmt.Errorf("completing authorization: %w",
		NewAuthError(ProviderJira, "exchange code", errors.New("boom")))

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.Equal(t, ProviderJira, authErr.Provider)
	assert.Equal(t, "exchange code", authErr.Op)
}
