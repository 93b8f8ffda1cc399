package driving

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// WebhookService manages the webhook registered for each repository.
type WebhookService interface {
	// ListAll returns every webhook in creation order.
	ListAll(ctx context.Context) ([]domain.WebhookConfig, error)

	// FindByRepository returns the webhook for repositoryID, or nil.
	FindByRepository(ctx context.Context, repositoryID int64) (*domain.WebhookConfig, error)

	// Get returns the webhook with id.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.WebhookConfig, error)

	// Create registers a webhook for a repository.
	// Returns domain.ErrNotAuthorized without a credential for provider and
	// domain.ErrAlreadyExists if the repository already has one.
	Create(ctx context.Context, repositoryID int64, repositoryName string, provider domain.Provider) (*domain.WebhookConfig, error)

	// Delete removes a webhook.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// UpdateStatus records a status. Missing ids are ignored.
	UpdateStatus(ctx context.Context, id string, status domain.WebhookStatus)

	// Test pings a webhook and marks it active.
	// Returns domain.ErrNotFound if it does not exist.
	Test(ctx context.Context, id string) error

	// HasActiveWebhook returns true if the repository has an active webhook.
	HasActiveWebhook(ctx context.Context, repositoryID int64) bool

	// Info describes the endpoint and events for a provider.
	Info(provider domain.Provider) (*domain.WebhookInfo, error)
}
