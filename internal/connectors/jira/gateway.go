// Package jira implements the live Jira Cloud gateway.
//
// Jira uses Atlassian's OAuth 2.0 (3LO) flow, which requires the
// audience=api.atlassian.com and prompt=consent authorization parameters.
// Jira is connect-only: webhook operations report
// domain.ErrUnsupportedProvider.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/revlink/internal/adapters/driven/oauth"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/logger"
)

// DefaultAPIBaseURL is the Atlassian platform API root.
const DefaultAPIBaseURL = "https://api.atlassian.com"

// AuthParams returns the extra authorization parameters Atlassian requires.
func AuthParams() []oauth.Option {
	return []oauth.Option{
		oauth.WithAuthParam("audience", "api.atlassian.com"),
		oauth.WithAuthParam("prompt", "consent"),
	}
}

// Ensure Gateway implements the interface.
var _ driven.ProviderGateway = (*Gateway)(nil)

// Gateway talks to Atlassian on behalf of the connected user.
type Gateway struct {
	oauth   *oauth.Client
	baseURL string
}

// New creates a Jira gateway. client should be built with AuthParams.
func New(client *oauth.Client, apiBaseURL string) *Gateway {
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	return &Gateway{
		oauth:   client,
		baseURL: strings.TrimRight(apiBaseURL, "/"),
	}
}

// Provider returns domain.ProviderJira.
func (g *Gateway) Provider() domain.Provider {
	return domain.ProviderJira
}

// AuthorizeURL builds the authorization URL for state.
func (g *Gateway) AuthorizeURL(state string) string {
	return g.oauth.AuthorizeURL(state)
}

// RedirectURI returns the callback URI registered with Atlassian.
func (g *Gateway) RedirectURI() string {
	return g.oauth.RedirectURI()
}

// ExchangeCode exchanges an authorization code for a credential.
func (g *Gateway) ExchangeCode(ctx context.Context, code string) (*domain.AccessCredential, error) {
	return g.oauth.Exchange(ctx, code)
}

// RevokeToken is a no-op; Atlassian grants are revoked from the user's
// account settings.
func (g *Gateway) RevokeToken(context.Context, domain.AccessCredential) error {
	logger.Debug("atlassian has no revocation endpoint, dropping token locally")
	return nil
}

// AccountIdentifier returns the email (or name) of the Atlassian account.
func (g *Gateway) AccountIdentifier(ctx context.Context, cred domain.AccessCredential) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/me", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.oauth.HTTPClient(ctx, cred).Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var me struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return "", fmt.Errorf("decode user info: %w", err)
	}
	if me.Email != "" {
		return me.Email, nil
	}
	return me.Name, nil
}

// RegisterWebhook is unsupported.
func (g *Gateway) RegisterWebhook(context.Context, domain.AccessCredential, domain.WebhookConfig) (string, error) {
	return "", unsupported()
}

// DeleteWebhook is unsupported.
func (g *Gateway) DeleteWebhook(context.Context, domain.AccessCredential, domain.WebhookConfig) error {
	return unsupported()
}

// SendTestPing is unsupported.
func (g *Gateway) SendTestPing(context.Context, domain.AccessCredential, domain.WebhookConfig) error {
	return unsupported()
}

func unsupported() error {
	return fmt.Errorf("%w: jira has no repository webhooks", domain.ErrUnsupportedProvider)
}
