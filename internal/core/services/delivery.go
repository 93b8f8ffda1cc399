package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
	"github.com/custodia-labs/revlink/internal/logger"
)

// Ensure DeliveryService implements the interface.
var _ driving.DeliveryService = (*DeliveryService)(nil)

// DeliveryService records webhook deliveries. Signature verification and
// dispatch of the events happen before and after it, respectively.
type DeliveryService struct {
	deliveries driven.DeliveryStore
	webhooks   driven.WebhookStore
	now        func() time.Time
}

// NewDeliveryService creates a new delivery service.
func NewDeliveryService(deliveries driven.DeliveryStore, webhooks driven.WebhookStore) *DeliveryService {
	return &DeliveryService{
		deliveries: deliveries,
		webhooks:   webhooks,
		now:        time.Now,
	}
}

// RecordDelivery appends an unprocessed delivery for webhookID and stamps
// the webhook's last trigger time.
func (s *DeliveryService) RecordDelivery(
	ctx context.Context,
	webhookID, eventName string,
	payload json.RawMessage,
) (*domain.WebhookEvent, error) {
	if eventName == "" {
		return nil, fmt.Errorf("%w: empty event name", domain.ErrInvalidInput)
	}
	if payload != nil && !json.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", domain.ErrInvalidInput)
	}

	webhooks, err := s.webhooks.List(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(webhooks, func(w domain.WebhookConfig) bool { return w.ID == webhookID }) {
		return nil, fmt.Errorf("%w: webhook %s", domain.ErrNotFound, webhookID)
	}

	now := s.now().UTC()
	event := domain.WebhookEvent{
		ID:        "evt_" + uuid.New().String(),
		WebhookID: webhookID,
		Event:     eventName,
		Payload:   payload,
		Timestamp: now,
		Processed: false,
	}
	if err := s.deliveries.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("recording delivery: %w", err)
	}

	err = s.webhooks.Update(ctx, webhookID, func(w *domain.WebhookConfig) {
		w.LastTriggeredAt = &now
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("stamping webhook: %w", err)
	}

	logger.Debug("recorded %s delivery %s for webhook %s", eventName, event.ID, webhookID)
	return &event, nil
}

// DeliveriesFor returns the deliveries for webhookID in the order recorded.
func (s *DeliveryService) DeliveriesFor(ctx context.Context, webhookID string) ([]domain.WebhookEvent, error) {
	return s.deliveries.List(ctx, webhookID)
}

// MarkProcessed flags a delivery as handled.
func (s *DeliveryService) MarkProcessed(ctx context.Context, webhookID, eventID string) error {
	return s.deliveries.MarkProcessed(ctx, webhookID, eventID)
}

// SimulateEvent records a synthetic pull request event for the webhook of
// repositoryID. eventType defaults to the webhook's first event.
func (s *DeliveryService) SimulateEvent(
	ctx context.Context,
	repositoryID int64,
	eventType string,
) (*domain.WebhookEvent, error) {
	webhooks, err := s.webhooks.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(webhooks, func(w domain.WebhookConfig) bool { return w.RepositoryID == repositoryID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: no webhook configured for repository %d", domain.ErrNotFound, repositoryID)
	}
	webhook := webhooks[idx]

	if eventType == "" && len(webhook.Events) > 0 {
		eventType = webhook.Events[0]
	}
	if !slices.Contains(webhook.Events, eventType) {
		return nil, fmt.Errorf("%w: webhook is not subscribed to %q", domain.ErrInvalidInput, eventType)
	}

	payload, err := json.Marshal(simulatedPayload(webhook, eventType))
	if err != nil {
		return nil, err
	}
	return s.RecordDelivery(ctx, webhook.ID, eventType, payload)
}

// simulatedPullRequest is the payload body of a synthetic event.
type simulatedPullRequest struct {
	Action      string `json:"action"`
	PullRequest struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		State  string `json:"state"`
	} `json:"pull_request"`
	Repository struct {
		Name string `json:"name"`
	} `json:"repository"`
}

func simulatedPayload(webhook domain.WebhookConfig, eventType string) simulatedPullRequest {
	var p simulatedPullRequest
	switch eventType {
	case "pull_request", "pullrequest:created":
		p.Action = "opened"
	case "pullrequest:updated":
		p.Action = "synchronize"
	default:
		p.Action = "submitted"
	}
	p.PullRequest.Number = rand.IntN(100) //nolint:gosec // Demo data, not security sensitive
	p.PullRequest.Title = "Test pull request"
	p.PullRequest.State = "open"
	p.Repository.Name = webhook.RepositoryName
	return p
}
