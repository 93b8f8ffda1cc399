package kv

import (
	"context"
	"fmt"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// credentialStore implements driven.CredentialStore.
type credentialStore struct {
	layout *Layout
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// Get returns the stored credential for provider, or nil.
func (s *credentialStore) Get(ctx context.Context, provider domain.Provider) (*domain.AccessCredential, error) {
	var cred domain.AccessCredential
	found, err := s.layout.readJSON(ctx, tokenKey(provider), &cred)
	if err != nil || !found {
		return nil, err
	}
	if cred.AccessToken == "" {
		return nil, fmt.Errorf("%w: %s: missing access token", domain.ErrStorageCorrupt, tokenKey(provider))
	}
	return &cred, nil
}

// Put overwrites the credential for provider.
func (s *credentialStore) Put(ctx context.Context, provider domain.Provider, cred domain.AccessCredential) error {
	return s.layout.writeJSON(ctx, tokenKey(provider), cred)
}

// Remove deletes the credential for provider.
func (s *credentialStore) Remove(ctx context.Context, provider domain.Provider) error {
	if err := s.layout.kv.Delete(ctx, tokenKey(provider)); err != nil {
		return fmt.Errorf("deleting %s: %w", tokenKey(provider), err)
	}
	return nil
}
