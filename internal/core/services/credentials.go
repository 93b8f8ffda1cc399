package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/logger"
)

// CredentialService owns the access credential of each provider.
// Expired credentials are treated as absent and evicted on read.
type CredentialService struct {
	store driven.CredentialStore
	now   func() time.Time
}

// NewCredentialService creates a new credential service.
func NewCredentialService(store driven.CredentialStore) *CredentialService {
	return &CredentialService{
		store: store,
		now:   time.Now,
	}
}

// Get returns the unexpired credential for provider, or nil.
// A corrupt stored value reads as absent.
func (s *CredentialService) Get(ctx context.Context, provider domain.Provider) (*domain.AccessCredential, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	cred, err := s.store.Get(ctx, provider)
	if err != nil {
		if errors.Is(err, domain.ErrStorageCorrupt) {
			logger.Warn("ignoring stored credential for %s: %v", provider, err)
			return nil, nil
		}
		return nil, fmt.Errorf("reading credential: %w", err)
	}
	if cred == nil {
		return nil, nil
	}

	if cred.IsExpiredAt(s.now()) {
		logger.Debug("credential for %s expired at %s, evicting", provider, cred.ExpiresAt.Format(time.RFC3339))
		if err := s.store.Remove(ctx, provider); err != nil {
			logger.Warn("evicting expired credential for %s: %v", provider, err)
		}
		return nil, nil
	}

	return cred, nil
}

// Put overwrites the credential for provider.
func (s *CredentialService) Put(ctx context.Context, provider domain.Provider, cred domain.AccessCredential) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if !provider.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	if cred.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", domain.ErrInvalidInput)
	}
	cred.Provider = provider
	return s.store.Put(ctx, provider, cred)
}

// Remove deletes the credential for provider. No error if absent.
func (s *CredentialService) Remove(ctx context.Context, provider domain.Provider) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Remove(ctx, provider)
}

// IsConnected returns true if Get yields a credential.
func (s *CredentialService) IsConnected(ctx context.Context, provider domain.Provider) bool {
	cred, err := s.Get(ctx, provider)
	if err != nil {
		logger.Warn("checking connection to %s: %v", provider, err)
		return false
	}
	return cred != nil
}
