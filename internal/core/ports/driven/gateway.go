package driven

import (
	"context"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// ProviderGateway performs the provider-facing side of authorization and
// webhook management. Each provider has its own implementation; the
// simulated gateway performs everything locally.
type ProviderGateway interface {
	// Provider returns the provider this gateway talks to.
	Provider() domain.Provider

	// AuthorizeURL builds the authorization URL for state.
	AuthorizeURL(state string) string

	// RedirectURI returns the callback URI registered with the provider.
	RedirectURI() string

	// ExchangeCode exchanges an authorization code for a credential.
	ExchangeCode(ctx context.Context, code string) (*domain.AccessCredential, error)

	// RevokeToken invalidates the credential on the provider's side.
	RevokeToken(ctx context.Context, cred domain.AccessCredential) error

	// AccountIdentifier resolves the login the credential belongs to.
	// Returns empty string when the provider has no such endpoint.
	AccountIdentifier(ctx context.Context, cred domain.AccessCredential) (string, error)

	// RegisterWebhook creates the subscription on the provider and returns
	// the identifier the provider assigned.
	RegisterWebhook(ctx context.Context, cred domain.AccessCredential, webhook domain.WebhookConfig) (string, error)

	// DeleteWebhook removes the subscription from the provider.
	DeleteWebhook(ctx context.Context, cred domain.AccessCredential, webhook domain.WebhookConfig) error

	// SendTestPing asks the provider to deliver a test event.
	SendTestPing(ctx context.Context, cred domain.AccessCredential, webhook domain.WebhookConfig) error
}
