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

// deliveryStore implements driven.DeliveryStore, one key per webhook.
type deliveryStore struct {
	layout *Layout
}

var _ driven.DeliveryStore = (*deliveryStore)(nil)

// Append adds event to the end of its webhook's log.
func (s *deliveryStore) Append(ctx context.Context, event domain.WebhookEvent) error {
	if event.WebhookID == "" || event.ID == "" {
		return domain.ErrInvalidInput
	}

	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	events, err := s.load(ctx, event.WebhookID)
	if err != nil {
		return err
	}
	return s.layout.writeJSON(ctx, deliveriesKey(event.WebhookID), append(events, event))
}

// List returns the deliveries for webhookID in append order.
func (s *deliveryStore) List(ctx context.Context, webhookID string) ([]domain.WebhookEvent, error) {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()
	return s.load(ctx, webhookID)
}

// MarkProcessed flags a delivery as processed.
func (s *deliveryStore) MarkProcessed(ctx context.Context, webhookID, eventID string) error {
	s.layout.mu.Lock()
	defer s.layout.mu.Unlock()

	events, err := s.load(ctx, webhookID)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(events, func(e domain.WebhookEvent) bool { return e.ID == eventID })
	if idx < 0 {
		return fmt.Errorf("%w: delivery %s", domain.ErrNotFound, eventID)
	}

	events[idx].Processed = true
	return s.layout.writeJSON(ctx, deliveriesKey(webhookID), events)
}

// load reads a webhook's deliveries (caller must hold lock).
func (s *deliveryStore) load(ctx context.Context, webhookID string) ([]domain.WebhookEvent, error) {
	var events []domain.WebhookEvent
	if _, err := s.layout.readJSON(ctx, deliveriesKey(webhookID), &events); err != nil {
		if errors.Is(err, domain.ErrStorageCorrupt) {
			logger.Warn("failed to parse deliveries for %s: %v", webhookID, err)
			return []domain.WebhookEvent{}, nil
		}
		return nil, err
	}
	if events == nil {
		events = []domain.WebhookEvent{}
	}
	return events, nil
}
