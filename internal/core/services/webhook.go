package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
	"github.com/custodia-labs/revlink/internal/logger"
)

// Ensure WebhookService implements the interface.
var _ driving.WebhookService = (*WebhookService)(nil)

// webhookContentType is the payload encoding requested from providers.
const webhookContentType = "application/json"

// WebhookService manages the webhook registered for each repository.
// Registration is gated on an active connection to the provider; later
// disconnection does not touch existing webhooks.
type WebhookService struct {
	store       driven.WebhookStore
	oauth       driving.OAuthService
	credentials *CredentialService
	gateways    *GatewayRegistry
	baseURL     string
	now         func() time.Time
}

// NewWebhookService creates a new webhook service.
// baseURL is the public origin providers deliver events to.
func NewWebhookService(
	store driven.WebhookStore,
	oauth driving.OAuthService,
	credentials *CredentialService,
	gateways *GatewayRegistry,
	baseURL string,
) *WebhookService {
	return &WebhookService{
		store:       store,
		oauth:       oauth,
		credentials: credentials,
		gateways:    gateways,
		baseURL:     baseURL,
		now:         time.Now,
	}
}

// ListAll returns every webhook in creation order.
func (s *WebhookService) ListAll(ctx context.Context) ([]domain.WebhookConfig, error) {
	return s.store.List(ctx)
}

// FindByRepository returns the webhook for repositoryID, or nil.
func (s *WebhookService) FindByRepository(ctx context.Context, repositoryID int64) (*domain.WebhookConfig, error) {
	webhooks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range webhooks {
		if webhooks[i].RepositoryID == repositoryID {
			return &webhooks[i], nil
		}
	}
	return nil, nil
}

// Get returns the webhook with id.
func (s *WebhookService) Get(ctx context.Context, id string) (*domain.WebhookConfig, error) {
	webhooks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range webhooks {
		if webhooks[i].ID == id {
			return &webhooks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: webhook %s", domain.ErrNotFound, id)
}

// Create registers a webhook for a repository.
func (s *WebhookService) Create(
	ctx context.Context,
	repositoryID int64,
	repositoryName string,
	provider domain.Provider,
) (*domain.WebhookConfig, error) {
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	if !provider.SupportsWebhooks() {
		return nil, fmt.Errorf("%w: %s has no repository webhooks", domain.ErrUnsupportedProvider, provider)
	}
	if !s.oauth.IsConnected(ctx, provider) {
		return nil, fmt.Errorf("%w: connect to %s first", domain.ErrNotAuthorized, provider)
	}

	existing, err := s.FindByRepository(ctx, repositoryID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: webhook for repository %d", domain.ErrAlreadyExists, repositoryID)
	}

	secret, err := generateWebhookSecret()
	if err != nil {
		return nil, fmt.Errorf("generating webhook secret: %w", err)
	}

	webhook := domain.WebhookConfig{
		ID:             "wh_" + uuid.New().String(),
		RepositoryID:   repositoryID,
		RepositoryName: repositoryName,
		Provider:       provider,
		Events:         domain.DefaultWebhookEvents(provider),
		URL:            domain.WebhookEndpoint(s.baseURL, provider),
		Secret:         secret,
		Status:         domain.WebhookActive,
		CreatedAt:      s.now().UTC(),
	}

	gw, err := s.gateways.Get(provider)
	if err != nil {
		return nil, err
	}
	externalID, err := gw.RegisterWebhook(ctx, s.credentialFor(ctx, provider), webhook)
	if err != nil {
		return nil, domain.NewAuthError(provider, "register webhook", err)
	}
	webhook.ExternalID = externalID

	if err := s.store.Add(ctx, webhook); err != nil {
		if derr := gw.DeleteWebhook(ctx, s.credentialFor(ctx, provider), webhook); derr != nil {
			logger.Warn("rolling back webhook on %s: %v", provider, derr)
		}
		return nil, fmt.Errorf("saving webhook: %w", err)
	}
	logger.Info("webhook %s created for %s", webhook.ID, repositoryName)
	return &webhook, nil
}

// Delete removes a webhook. The provider-side subscription is removed
// on a best-effort basis.
func (s *WebhookService) Delete(ctx context.Context, id string) error {
	webhook, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if gw, err := s.gateways.Get(webhook.Provider); err == nil {
		if err := gw.DeleteWebhook(ctx, s.credentialFor(ctx, webhook.Provider), *webhook); err != nil {
			logger.Warn("removing webhook %s from %s: %v", id, webhook.Provider, err)
		}
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	logger.Info("webhook %s deleted", id)
	return nil
}

// UpdateStatus records status for the webhook with id.
// Missing ids and invalid statuses are ignored.
func (s *WebhookService) UpdateStatus(ctx context.Context, id string, status domain.WebhookStatus) {
	if !status.IsValid() {
		logger.Warn("ignoring invalid webhook status %q for %s", status, id)
		return
	}
	err := s.store.Update(ctx, id, func(w *domain.WebhookConfig) {
		w.Status = status
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("updating webhook %s status: %v", id, err)
	}
}

// Test asks the provider for a test delivery. Success marks the webhook
// active, failure marks it errored.
func (s *WebhookService) Test(ctx context.Context, id string) error {
	webhook, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	gw, err := s.gateways.Get(webhook.Provider)
	if err != nil {
		return err
	}
	if err := gw.SendTestPing(ctx, s.credentialFor(ctx, webhook.Provider), *webhook); err != nil {
		s.UpdateStatus(ctx, id, domain.WebhookError)
		return domain.NewAuthError(webhook.Provider, "test webhook", err)
	}

	s.UpdateStatus(ctx, id, domain.WebhookActive)
	return nil
}

// HasActiveWebhook returns true if the repository has an active webhook.
func (s *WebhookService) HasActiveWebhook(ctx context.Context, repositoryID int64) bool {
	webhook, err := s.FindByRepository(ctx, repositoryID)
	if err != nil {
		logger.Warn("looking up webhook for repository %d: %v", repositoryID, err)
		return false
	}
	return webhook != nil && webhook.Status == domain.WebhookActive
}

// Info describes the endpoint and events a provider is configured with.
func (s *WebhookService) Info(provider domain.Provider) (*domain.WebhookInfo, error) {
	if !provider.SupportsWebhooks() {
		return nil, fmt.Errorf("%w: %q has no repository webhooks", domain.ErrUnsupportedProvider, provider)
	}
	return &domain.WebhookInfo{
		Provider:    provider,
		Endpoint:    domain.WebhookEndpoint(s.baseURL, provider),
		Events:      domain.DefaultWebhookEvents(provider),
		ContentType: webhookContentType,
	}, nil
}

// credentialFor returns the current credential for provider, or an empty
// one carrying only the provider when none is stored.
func (s *WebhookService) credentialFor(ctx context.Context, provider domain.Provider) domain.AccessCredential {
	cred, err := s.credentials.Get(ctx, provider)
	if err != nil || cred == nil {
		return domain.AccessCredential{Provider: provider}
	}
	return *cred
}
