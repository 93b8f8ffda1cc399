package driven

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// WebhookStore persists webhook configurations.
// Order of insertion is preserved.
type WebhookStore interface {
	// List returns all webhooks in insertion order.
	// A corrupt collection reads as empty.
	List(ctx context.Context) ([]domain.WebhookConfig, error)

	// Add appends a webhook.
	// Returns domain.ErrAlreadyExists if the repository already has one.
	Add(ctx context.Context, webhook domain.WebhookConfig) error

	// Update applies fn to the webhook with id and persists the result.
	// Returns domain.ErrNotFound if no webhook has id.
	Update(ctx context.Context, id string, fn func(*domain.WebhookConfig)) error

	// Remove deletes the webhook with id.
	// Returns domain.ErrNotFound if no webhook has id.
	Remove(ctx context.Context, id string) error
}
