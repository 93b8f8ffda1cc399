// Package simulated implements a provider gateway that performs every
// provider call locally. It is the default gateway: authorization URLs
// point at the real provider, but code exchange mints a demo credential
// and webhook calls always succeed.
package simulated

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/revlink/internal/adapters/driven/oauth"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// Ensure Gateway implements the interface.
var _ driven.ProviderGateway = (*Gateway)(nil)

// Gateway is the local stand-in for one provider.
type Gateway struct {
	oauth *oauth.Client
	now   func() time.Time
}

// New creates a simulated gateway for the provider of client.
func New(client *oauth.Client) *Gateway {
	return &Gateway{
		oauth: client,
		now:   time.Now,
	}
}

// Provider returns the simulated provider.
func (g *Gateway) Provider() domain.Provider {
	return g.oauth.Provider()
}

// AuthorizeURL builds the provider's authorization URL for state.
func (g *Gateway) AuthorizeURL(state string) string {
	return g.oauth.AuthorizeURL(state)
}

// RedirectURI returns the configured callback URI.
func (g *Gateway) RedirectURI() string {
	return g.oauth.RedirectURI()
}

// ExchangeCode accepts any non-empty code and mints a demo credential.
func (g *Gateway) ExchangeCode(_ context.Context, code string) (*domain.AccessCredential, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", domain.ErrInvalidInput)
	}
	cred := domain.NewDemoCredential(g.Provider(), g.now())
	return &cred, nil
}

// RevokeToken always succeeds.
func (g *Gateway) RevokeToken(context.Context, domain.AccessCredential) error {
	return nil
}

// AccountIdentifier returns a fixed demo login.
func (g *Gateway) AccountIdentifier(context.Context, domain.AccessCredential) (string, error) {
	return "demo-user", nil
}

// RegisterWebhook returns a fresh local hook id.
func (g *Gateway) RegisterWebhook(
	_ context.Context,
	_ domain.AccessCredential,
	_ domain.WebhookConfig,
) (string, error) {
	if !g.Provider().SupportsWebhooks() {
		return "", fmt.Errorf("%w: %s has no repository webhooks", domain.ErrUnsupportedProvider, g.Provider())
	}
	return "sim_" + uuid.New().String(), nil
}

// DeleteWebhook always succeeds.
func (g *Gateway) DeleteWebhook(context.Context, domain.AccessCredential, domain.WebhookConfig) error {
	return nil
}

// SendTestPing always succeeds.
func (g *Gateway) SendTestPing(context.Context, domain.AccessCredential, domain.WebhookConfig) error {
	return nil
}
