package simulated

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/adapters/driven/oauth"
	"github.com/custodia-labs/revlink/internal/core/domain"
)

func newGateway(provider domain.Provider) *Gateway {
	cfg := domain.DefaultProviderOAuthConfig(provider, "http://localhost:8787")
	return New(oauth.NewClient(provider, cfg))
}

func TestGateway_ExchangeCode(t *testing.T) {
	g := newGateway(domain.ProviderBitbucket)
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	g.now = func() time.Time { return now }

	cred, err := g.ExchangeCode(context.Background(), "any-code")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderBitbucket, cred.Provider)
	assert.True(t, strings.HasPrefix(cred.AccessToken, "demo_bitbucket_token_"))
	assert.Equal(t, now.Add(time.Hour), cred.ExpiresAt)

	_, err = g.ExchangeCode(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGateway_AuthorizeURL(t *testing.T) {
	g := newGateway(domain.ProviderGitHub)

	raw := g.AuthorizeURL("abc")
	assert.True(t, strings.HasPrefix(raw, "https://github.com/login/oauth/authorize?"))
	assert.Contains(t, raw, "state=abc")
	assert.Equal(t, "http://localhost:8787/oauth/callback/github", g.RedirectURI())
}

func TestGateway_Webhooks(t *testing.T) {
	ctx := context.Background()
	cred := domain.AccessCredential{AccessToken: "x"}

	g := newGateway(domain.ProviderGitHub)
	id, err := g.RegisterWebhook(ctx, cred, domain.WebhookConfig{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "sim_"))
	assert.NoError(t, g.SendTestPing(ctx, cred, domain.WebhookConfig{}))
	assert.NoError(t, g.DeleteWebhook(ctx, cred, domain.WebhookConfig{}))
	assert.NoError(t, g.RevokeToken(ctx, cred))

	_, err = newGateway(domain.ProviderJira).RegisterWebhook(ctx, cred, domain.WebhookConfig{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)
}
