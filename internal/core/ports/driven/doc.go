// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - KeyValueStore: Local string-keyed persistence (sqlite or memory)
//   - CredentialStore: Provider credential persistence
//   - StateStore: The pending CSRF state slot
//   - WebhookStore: Webhook configuration persistence
//   - DeliveryStore: Append-only webhook delivery records
//   - ProviderGateway: Authorization, token and webhook calls to a provider
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - AuthPresenter: Shows an authorization URL to the user. Without it,
//     BeginAuthorization only returns the URL.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or driving package
package driven
