package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/kv"
	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

var errGatewayDown = errors.New("gateway unavailable")

// mockGateway records calls and returns configured results.
type mockGateway struct {
	mu       sync.Mutex
	provider domain.Provider

	exchangeErr error
	revokeErr   error
	registerErr error
	deleteErr   error
	pingErr     error
	account     string

	exchanged  []string
	revoked    []domain.AccessCredential
	registered []domain.WebhookConfig
	deleted    []domain.WebhookConfig
	pinged     []domain.AccessCredential

	// onExchange runs before ExchangeCode returns.
	onExchange func()
}

var _ driven.ProviderGateway = (*mockGateway)(nil)

func newMockGateway(provider domain.Provider) *mockGateway {
	return &mockGateway{provider: provider}
}

func (g *mockGateway) Provider() domain.Provider { return g.provider }

func (g *mockGateway) AuthorizeURL(state string) string {
	return "https://auth.example.com/" + g.provider.String() + "?state=" + state
}

func (g *mockGateway) RedirectURI() string {
	return "http://localhost:8787/oauth/callback/" + g.provider.String()
}

func (g *mockGateway) ExchangeCode(_ context.Context, code string) (*domain.AccessCredential, error) {
	g.mu.Lock()
	g.exchanged = append(g.exchanged, code)
	g.mu.Unlock()

	if g.onExchange != nil {
		g.onExchange()
	}
	if g.exchangeErr != nil {
		return nil, g.exchangeErr
	}
	return &domain.AccessCredential{
		AccessToken:  "access-" + code,
		RefreshToken: "refresh-" + code,
		TokenType:    "Bearer",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (g *mockGateway) RevokeToken(_ context.Context, cred domain.AccessCredential) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revoked = append(g.revoked, cred)
	return g.revokeErr
}

func (g *mockGateway) AccountIdentifier(context.Context, domain.AccessCredential) (string, error) {
	return g.account, nil
}

func (g *mockGateway) RegisterWebhook(
	_ context.Context,
	_ domain.AccessCredential,
	webhook domain.WebhookConfig,
) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.registerErr != nil {
		return "", g.registerErr
	}
	g.registered = append(g.registered, webhook)
	return "ext-" + webhook.ID, nil
}

func (g *mockGateway) DeleteWebhook(_ context.Context, _ domain.AccessCredential, webhook domain.WebhookConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, webhook)
	return g.deleteErr
}

func (g *mockGateway) SendTestPing(_ context.Context, cred domain.AccessCredential, _ domain.WebhookConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pinged = append(g.pinged, cred)
	return g.pingErr
}

// testEnv wires every service over one in-memory key/value store.
type testEnv struct {
	kv          *memory.KeyValueStore
	layout      *kv.Layout
	credentials *CredentialService
	guard       *StateGuard
	gateways    map[domain.Provider]*mockGateway
	oauth       *OAuthService
	webhooks    *WebhookService
	deliveries  *DeliveryService
}

const testBaseURL = "http://localhost:8787"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewKeyValueStore()
	layout := kv.New(store)

	env := &testEnv{
		kv:       store,
		layout:   layout,
		gateways: make(map[domain.Provider]*mockGateway),
	}

	registry := NewGatewayRegistry()
	for _, p := range domain.AllProviders() {
		gw := newMockGateway(p)
		env.gateways[p] = gw
		registry.Register(gw)
	}

	env.credentials = NewCredentialService(layout.CredentialStore())
	env.guard = NewStateGuard(layout.StateStore())
	env.oauth = NewOAuthService(env.credentials, env.guard, registry, nil)
	env.webhooks = NewWebhookService(layout.WebhookStore(), env.oauth, env.credentials, registry, testBaseURL)
	env.deliveries = NewDeliveryService(layout.DeliveryStore(), layout.WebhookStore())
	return env
}

// recordingPresenter captures presented requests.
type recordingPresenter struct {
	requests []domain.AuthorizationRequest
	err      error
}

func (p *recordingPresenter) Present(_ context.Context, req domain.AuthorizationRequest) error {
	p.requests = append(p.requests, req)
	return p.err
}
