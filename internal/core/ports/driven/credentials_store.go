package driven

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// CredentialStore persists one access credential per provider.
// It is pure data access: expiry handling lives in the service.
type CredentialStore interface {
	// Get returns the stored credential for provider.
	// Returns nil, nil if none is stored.
	// Returns domain.ErrStorageCorrupt if the stored value cannot be decoded.
	Get(ctx context.Context, provider domain.Provider) (*domain.AccessCredential, error)

	// Put overwrites the credential for provider.
	Put(ctx context.Context, provider domain.Provider, cred domain.AccessCredential) error

	// Remove deletes the credential for provider. No error if absent.
	Remove(ctx context.Context, provider domain.Provider) error
}
