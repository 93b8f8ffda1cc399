package driving

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// DeliveryService records and queries webhook deliveries.
type DeliveryService interface {
	// RecordDelivery appends a delivery and stamps the webhook's last trigger time.
	RecordDelivery(ctx context.Context, webhookID, eventName string, payload json.RawMessage) (*domain.WebhookEvent, error)

	// DeliveriesFor returns a webhook's deliveries in the order recorded.
	DeliveriesFor(ctx context.Context, webhookID string) ([]domain.WebhookEvent, error)

	// MarkProcessed flags a delivery as handled.
	MarkProcessed(ctx context.Context, webhookID, eventID string) error

	// SimulateEvent records a synthetic pull request event for a repository.
	SimulateEvent(ctx context.Context, repositoryID int64, eventType string) (*domain.WebhookEvent, error)
}
