// Package kv maps revlink's persisted state onto a driven.KeyValueStore.
//
// Every value is JSON under a fixed string key:
//
//   - oauth_token_<provider>: AccessCredential
//   - oauth_state: the pending CSRF state (plain string)
//   - oauth_pending: PendingAuthorization for the pending state
//   - webhooks: array of WebhookConfig in creation order
//   - webhook_deliveries_<webhookID>: array of WebhookEvent in append order
//
// The layout is independent of the backing store, so the same data can
// live in SQLite or in memory.
//
// # Thread Safety
//
// Read-modify-write sequences are serialised by a mutex held by the
// Layout, so concurrent updates within one process are never lost.
package kv
