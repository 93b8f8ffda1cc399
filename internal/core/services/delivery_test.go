package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

func createTestWebhook(t *testing.T, env *testEnv, repositoryID int64) *domain.WebhookConfig {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.oauth.SimulateConnect(ctx, domain.ProviderGitHub))
	webhook, err := env.webhooks.Create(ctx, repositoryID, "acme/web", domain.ProviderGitHub)
	require.NoError(t, err)
	return webhook
}

func TestDeliveryService_RecordDelivery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	webhook := createTestWebhook(t, env, 42)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	env.deliveries.now = func() time.Time { return now }

	event, err := env.deliveries.RecordDelivery(ctx, webhook.ID, "pull_request", json.RawMessage(`{"action":"opened"}`))
	require.NoError(t, err)
	assert.Equal(t, webhook.ID, event.WebhookID)
	assert.False(t, event.Processed)
	assert.Equal(t, now, event.Timestamp)

	got, err := env.webhooks.Get(ctx, webhook.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastTriggeredAt)
	assert.True(t, now.Equal(*got.LastTriggeredAt))
}

func TestDeliveryService_DeliveriesFor_InsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	webhook := createTestWebhook(t, env, 42)

	names := []string{"pull_request", "pull_request_review", "pull_request_review_comment", "pull_request"}
	for _, name := range names {
		_, err := env.deliveries.RecordDelivery(ctx, webhook.ID, name, nil)
		require.NoError(t, err)
	}

	events, err := env.deliveries.DeliveriesFor(ctx, webhook.ID)
	require.NoError(t, err)
	require.Len(t, events, len(names))
	for i, name := range names {
		assert.Equal(t, name, events[i].Event)
	}
}

func TestDeliveryService_DeliveriesFor_None(t *testing.T) {
	env := newTestEnv(t)

	events, err := env.deliveries.DeliveriesFor(context.Background(), "wh_unknown")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDeliveryService_RecordDelivery_Invalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	webhook := createTestWebhook(t, env, 42)

	_, err := env.deliveries.RecordDelivery(ctx, webhook.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.deliveries.RecordDelivery(ctx, webhook.ID, "pull_request", json.RawMessage(`{`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.deliveries.RecordDelivery(ctx, "wh_missing", "pull_request", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeliveryService_MarkProcessed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	webhook := createTestWebhook(t, env, 42)

	event, err := env.deliveries.RecordDelivery(ctx, webhook.ID, "pull_request", nil)
	require.NoError(t, err)
	require.NoError(t, env.deliveries.MarkProcessed(ctx, webhook.ID, event.ID))

	events, err := env.deliveries.DeliveriesFor(ctx, webhook.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Processed)

	assert.ErrorIs(t, env.deliveries.MarkProcessed(ctx, webhook.ID, "evt_missing"), domain.ErrNotFound)
}

func TestDeliveryService_SimulateEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	webhook := createTestWebhook(t, env, 42)

	event, err := env.deliveries.SimulateEvent(ctx, 42, "")
	require.NoError(t, err)
	assert.Equal(t, webhook.ID, event.WebhookID)
	assert.Equal(t, "pull_request", event.Event)

	var payload simulatedPullRequest
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "opened", payload.Action)
	assert.Equal(t, "acme/web", payload.Repository.Name)

	event, err = env.deliveries.SimulateEvent(ctx, 42, "pull_request_review")
	require.NoError(t, err)
	assert.Equal(t, "pull_request_review", event.Event)
}

func TestDeliveryService_SimulateEvent_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	createTestWebhook(t, env, 42)

	_, err := env.deliveries.SimulateEvent(ctx, 99, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.deliveries.SimulateEvent(ctx, 42, "push")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
