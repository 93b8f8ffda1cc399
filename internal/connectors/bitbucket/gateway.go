// Package bitbucket implements the live Bitbucket Cloud gateway over the
// 2.0 REST API.
//
// Bitbucket has neither a token revocation endpoint nor a hook ping
// endpoint: RevokeToken is a no-op and SendTestPing verifies that the hook
// still exists and is active.
package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/revlink/internal/adapters/driven/oauth"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/logger"
)

// DefaultAPIBaseURL is the Bitbucket Cloud API root.
const DefaultAPIBaseURL = "https://api.bitbucket.org/2.0"

// requestRate stays well under Bitbucket's 1000 requests/hour for
// repository data.
const requestRate = 0.25

// Bitbucket-specific errors.
var (
	// ErrInvalidRepository indicates a repository name not of the form workspace/slug.
	ErrInvalidRepository = errors.New("bitbucket: repository must be workspace/slug")

	// ErrMissingHookID indicates a webhook that was never registered with Bitbucket.
	ErrMissingHookID = errors.New("bitbucket: webhook has no hook uuid")

	// ErrHookInactive indicates the hook exists but Bitbucket has disabled it.
	ErrHookInactive = errors.New("bitbucket: hook is inactive")
)

// APIError is a non-2xx Bitbucket response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitbucket: API error %d: %s", e.StatusCode, e.Message)
}

// Ensure Gateway implements the interface.
var _ driven.ProviderGateway = (*Gateway)(nil)

// Gateway talks to the Bitbucket Cloud API on behalf of the connected user.
type Gateway struct {
	oauth   *oauth.Client
	baseURL string
	limiter *rate.Limiter
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithAPIBaseURL overrides DefaultAPIBaseURL.
func WithAPIBaseURL(u string) Option {
	return func(g *Gateway) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit overrides the request rate.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(g *Gateway) {
		g.limiter = rate.NewLimiter(limit, burst)
	}
}

// New creates a Bitbucket gateway authorizing through client.
func New(client *oauth.Client, opts ...Option) *Gateway {
	g := &Gateway{
		oauth:   client,
		baseURL: DefaultAPIBaseURL,
		limiter: rate.NewLimiter(rate.Limit(requestRate), 5),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Provider returns domain.ProviderBitbucket.
func (g *Gateway) Provider() domain.Provider {
	return domain.ProviderBitbucket
}

// AuthorizeURL builds the authorization URL for state.
func (g *Gateway) AuthorizeURL(state string) string {
	return g.oauth.AuthorizeURL(state)
}

// RedirectURI returns the callback URI registered with Bitbucket.
func (g *Gateway) RedirectURI() string {
	return g.oauth.RedirectURI()
}

// ExchangeCode exchanges an authorization code for a credential.
func (g *Gateway) ExchangeCode(ctx context.Context, code string) (*domain.AccessCredential, error) {
	return g.oauth.Exchange(ctx, code)
}

// RevokeToken is a no-op; the grant lapses when the token expires.
func (g *Gateway) RevokeToken(context.Context, domain.AccessCredential) error {
	logger.Debug("bitbucket has no revocation endpoint, dropping token locally")
	return nil
}

// AccountIdentifier returns the username of the authenticated user.
func (g *Gateway) AccountIdentifier(ctx context.Context, cred domain.AccessCredential) (string, error) {
	var user struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	}
	if err := g.do(ctx, cred, http.MethodGet, "/user", nil, &user); err != nil {
		return "", err
	}
	if user.Username == "" {
		return user.DisplayName, nil
	}
	return user.Username, nil
}

type hook struct {
	UUID        string   `json:"uuid,omitempty"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Active      bool     `json:"active"`
	Events      []string `json:"events"`
	Secret      string   `json:"secret,omitempty"`
}

// RegisterWebhook creates a repository hook and returns its uuid.
func (g *Gateway) RegisterWebhook(
	ctx context.Context,
	cred domain.AccessCredential,
	webhook domain.WebhookConfig,
) (string, error) {
	path, err := hooksPath(webhook.RepositoryName)
	if err != nil {
		return "", err
	}

	req := hook{
		Description: "revlink pull request events",
		URL:         webhook.URL,
		Active:      true,
		Events:      webhook.Events,
		Secret:      webhook.Secret,
	}
	var created hook
	if err := g.do(ctx, cred, http.MethodPost, path, req, &created); err != nil {
		return "", err
	}
	return created.UUID, nil
}

// DeleteWebhook removes the repository hook. A hook Bitbucket no longer
// knows about counts as deleted.
func (g *Gateway) DeleteWebhook(ctx context.Context, cred domain.AccessCredential, webhook domain.WebhookConfig) error {
	path, err := hookPath(webhook)
	if err != nil {
		return err
	}

	err = g.do(ctx, cred, http.MethodDelete, path, nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

// SendTestPing checks that the hook still exists and is active.
func (g *Gateway) SendTestPing(ctx context.Context, cred domain.AccessCredential, webhook domain.WebhookConfig) error {
	path, err := hookPath(webhook)
	if err != nil {
		return err
	}

	var current hook
	if err := g.do(ctx, cred, http.MethodGet, path, nil, &current); err != nil {
		return err
	}
	if !current.Active {
		return ErrHookInactive
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into out.
func (g *Gateway) do(ctx context.Context, cred domain.AccessCredential, method, path string, in, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.oauth.HTTPClient(ctx, cred).Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
		apiErr.Message = payload.Error.Message
	}
	return apiErr
}

func hooksPath(repositoryName string) (string, error) {
	workspace, slug, ok := strings.Cut(repositoryName, "/")
	if !ok || workspace == "" || slug == "" || strings.Contains(slug, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRepository, repositoryName)
	}
	return "/repositories/" + url.PathEscape(workspace) + "/" + url.PathEscape(slug) + "/hooks", nil
}

func hookPath(webhook domain.WebhookConfig) (string, error) {
	path, err := hooksPath(webhook.RepositoryName)
	if err != nil {
		return "", err
	}
	if webhook.ExternalID == "" {
		return "", ErrMissingHookID
	}
	return path + "/" + url.PathEscape(webhook.ExternalID), nil
}
