package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/revlink/internal/adapters/driven/oauth"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// Ensure Gateway implements the interface.
var _ driven.ProviderGateway = (*Gateway)(nil)

// Gateway talks to the GitHub REST API on behalf of the connected user.
type Gateway struct {
	oauth       *oauth.Client
	rateLimiter *RateLimiter
	apiBaseURL  *url.URL
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithAPIBaseURL points the gateway at a different API root, such as a
// GitHub Enterprise server or a test server. A trailing slash is added.
func WithAPIBaseURL(raw string) Option {
	return func(g *Gateway) {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if u, err := url.Parse(raw); err == nil {
			g.apiBaseURL = u
		}
	}
}

// New creates a GitHub gateway authorizing through client.
func New(client *oauth.Client, opts ...Option) *Gateway {
	g := &Gateway{
		oauth:       client,
		rateLimiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Provider returns domain.ProviderGitHub.
func (g *Gateway) Provider() domain.Provider {
	return domain.ProviderGitHub
}

// AuthorizeURL builds the authorization URL for state.
func (g *Gateway) AuthorizeURL(state string) string {
	return g.oauth.AuthorizeURL(state)
}

// RedirectURI returns the callback URI registered with GitHub.
func (g *Gateway) RedirectURI() string {
	return g.oauth.RedirectURI()
}

// ExchangeCode exchanges an authorization code for a credential.
func (g *Gateway) ExchangeCode(ctx context.Context, code string) (*domain.AccessCredential, error) {
	return g.oauth.Exchange(ctx, code)
}

// RevokeToken deletes the OAuth grant. GitHub requires the application's
// client credentials for this call.
func (g *Gateway) RevokeToken(ctx context.Context, cred domain.AccessCredential) error {
	if g.oauth.ClientSecret() == "" {
		return errors.New("github: client secret required to revoke tokens")
	}

	tp := &gh.BasicAuthTransport{
		Username: g.oauth.ClientID(),
		Password: g.oauth.ClientSecret(),
	}
	client := g.withBaseURL(gh.NewClient(tp.Client()))

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	resp, err := client.Authorizations.Revoke(ctx, g.oauth.ClientID(), cred.AccessToken)
	g.observe(resp)
	return g.wrapError(err, "revoke token")
}

// AccountIdentifier returns the login of the authenticated user.
func (g *Gateway) AccountIdentifier(ctx context.Context, cred domain.AccessCredential) (string, error) {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	user, resp, err := g.client(ctx, cred).Users.Get(ctx, "")
	g.observe(resp)
	if err != nil {
		return "", g.wrapError(err, "get user")
	}
	return user.GetLogin(), nil
}

// RegisterWebhook creates a repository hook and returns its id.
func (g *Gateway) RegisterWebhook(
	ctx context.Context,
	cred domain.AccessCredential,
	webhook domain.WebhookConfig,
) (string, error) {
	owner, repo, err := splitRepository(webhook.RepositoryName)
	if err != nil {
		return "", err
	}

	hook := &gh.Hook{
		Name:   gh.Ptr("web"),
		Active: gh.Ptr(true),
		Events: webhook.Events,
		Config: &gh.HookConfig{
			URL:         gh.Ptr(webhook.URL),
			ContentType: gh.Ptr("json"),
			Secret:      gh.Ptr(webhook.Secret),
			InsecureSSL: gh.Ptr("0"),
		},
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	created, resp, err := g.client(ctx, cred).Repositories.CreateHook(ctx, owner, repo, hook)
	g.observe(resp)
	if err != nil {
		return "", g.wrapError(err, "create hook")
	}
	return strconv.FormatInt(created.GetID(), 10), nil
}

// DeleteWebhook removes the repository hook. A hook GitHub no longer
// knows about counts as deleted.
func (g *Gateway) DeleteWebhook(ctx context.Context, cred domain.AccessCredential, webhook domain.WebhookConfig) error {
	owner, repo, hookID, err := hookRef(webhook)
	if err != nil {
		return err
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	resp, err := g.client(ctx, cred).Repositories.DeleteHook(ctx, owner, repo, hookID)
	g.observe(resp)
	if err = g.wrapError(err, "delete hook"); IsNotFound(err) {
		return nil
	}
	return err
}

// SendTestPing asks GitHub to deliver a ping event to the hook.
func (g *Gateway) SendTestPing(ctx context.Context, cred domain.AccessCredential, webhook domain.WebhookConfig) error {
	owner, repo, hookID, err := hookRef(webhook)
	if err != nil {
		return err
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	resp, err := g.client(ctx, cred).Repositories.PingHook(ctx, owner, repo, hookID)
	g.observe(resp)
	return g.wrapError(err, "ping hook")
}

// RateLimiter returns the limiter shared by all calls.
func (g *Gateway) RateLimiter() *RateLimiter {
	return g.rateLimiter
}

func (g *Gateway) client(ctx context.Context, cred domain.AccessCredential) *gh.Client {
	return g.withBaseURL(gh.NewClient(g.oauth.HTTPClient(ctx, cred)))
}

func (g *Gateway) withBaseURL(c *gh.Client) *gh.Client {
	if g.apiBaseURL != nil {
		u := *g.apiBaseURL
		c.BaseURL = &u
	}
	return c
}

func (g *Gateway) observe(resp *gh.Response) {
	if resp != nil {
		g.rateLimiter.Observe(resp.Response)
	}
}

// wrapError converts go-github errors to our error types.
func (g *Gateway) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}

func splitRepository(name string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, name)
	}
	return owner, repo, nil
}

func hookRef(webhook domain.WebhookConfig) (owner, repo string, hookID int64, err error) {
	owner, repo, err = splitRepository(webhook.RepositoryName)
	if err != nil {
		return "", "", 0, err
	}
	if webhook.ExternalID == "" {
		return "", "", 0, ErrMissingHookID
	}
	hookID, err = strconv.ParseInt(webhook.ExternalID, 10, 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: %q", ErrMissingHookID, webhook.ExternalID)
	}
	return owner, repo, hookID, nil
}
