package kv

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/logger"
)

// webhookStore implements driven.WebhookStore over the webhooks key.
type webhookStore struct {
	layout *Layout
}

var _ driven.WebhookStore = (*webhookStore)(nil)

// List returns all webhooks in insertion order.
func (s *webhookStore) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()
	return s.load(ctx)
}

// Add appends a webhook, rejecting a second webhook for a repository.
func (s *webhookStore) Add(ctx context.Context, webhook domain.WebhookConfig) error {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	webhooks, err := s.load(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(webhooks, func(w domain.WebhookConfig) bool {
		return w.RepositoryID == webhook.RepositoryID || w.ID == webhook.ID
	}) {
		return fmt.Errorf("%w: webhook for repository %d", domain.ErrAlreadyExists, webhook.RepositoryID)
	}

	return s.layout.writeJSON(ctx, webhooksKey, append(webhooks, webhook))
}

// Update applies fn to the webhook with id.
func (s *webhookStore) Update(ctx context.Context, id string, fn func(*domain.WebhookConfig)) error {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	webhooks, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(webhooks, func(w domain.WebhookConfig) bool { return w.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: webhook %s", domain.ErrNotFound, id)
	}

	fn(&webhooks[idx])
	webhooks[idx].ID = id // The id is the key; fn may not change it.
	return s.layout.writeJSON(ctx, webhooksKey, webhooks)
}

// Remove deletes the webhook with id.
func (s *webhookStore) Remove(ctx context.Context, id string) error {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	webhooks, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(webhooks, func(w domain.WebhookConfig) bool { return w.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: webhook %s", domain.ErrNotFound, id)
	}

	return s.layout.writeJSON(ctx, webhooksKey, slices.Delete(webhooks, idx, idx+1))
}

// load reads the collection (caller must hold lock).
// A corrupt collection is logged and read as empty.
func (s *webhookStore) load(ctx context.Context) ([]domain.WebhookConfig, error) {
	var webhooks []domain.WebhookConfig
	if _, err := s.layout.readJSON(ctx, webhooksKey, &webhooks); err != nil {
		if errors.Is(err, domain.ErrStorageCorrupt) {
			logger.Warn("failed to parse webhooks: %v", err)
			return []domain.WebhookConfig{}, nil
		}
		return nil, err
	}
	if webhooks == nil {
		webhooks = []domain.WebhookConfig{}
	}
	return webhooks, nil
}
