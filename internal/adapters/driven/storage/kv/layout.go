package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// Persisted keys.
const (
	tokenKeyPrefix      = "oauth_token_"
	stateKey            = "oauth_state"
	pendingKey          = "oauth_pending"
	webhooksKey         = "webhooks"
	deliveriesKeyPrefix = "webhook_deliveries_"
)

// Layout provides the store interfaces backed by a single key-value store.
type Layout struct {
	kv driven.KeyValueStore
	mu sync.Mutex
}

// New creates a layout over kv.
func New(kv driven.KeyValueStore) *Layout {
	return &Layout{kv: kv}
}

// CredentialStore returns a CredentialStore backed by this layout.
func (l *Layout) CredentialStore() driven.CredentialStore {
	return &credentialStore{layout: l}
}

// StateStore returns a StateStore backed by this layout.
func (l *Layout) StateStore() driven.StateStore {
	return &stateStore{layout: l}
}

// WebhookStore returns a WebhookStore backed by this layout.
func (l *Layout) WebhookStore() driven.WebhookStore {
	return &webhookStore{layout: l}
}

// DeliveryStore returns a DeliveryStore backed by this layout.
func (l *Layout) DeliveryStore() driven.DeliveryStore {
	return &deliveryStore{layout: l}
}

func tokenKey(provider domain.Provider) string {
	return tokenKeyPrefix + provider.String()
}

func deliveriesKey(webhookID string) string {
	return deliveriesKeyPrefix + webhookID
}

// readJSON decodes the value under key into v.
// Returns false if the key is missing or empty.
func (l *Layout) readJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := l.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", domain.ErrStorageCorrupt, key, err)
	}
	return true, nil
}

// writeJSON encodes v and stores it under key in a single write.
func (l *Layout) writeJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", key, err)
	}
	if err := l.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
