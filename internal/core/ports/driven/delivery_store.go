package driven

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// DeliveryStore records webhook deliveries, append-only per webhook.
type DeliveryStore interface {
	// Append adds an event to the end of its webhook's log.
	Append(ctx context.Context, event domain.WebhookEvent) error

	// List returns the deliveries for webhookID in append order.
	List(ctx context.Context, webhookID string) ([]domain.WebhookEvent, error)

	// MarkProcessed flags a delivery as processed.
	// Returns domain.ErrNotFound if the delivery does not exist.
	MarkProcessed(ctx context.Context, webhookID, eventID string) error
}
