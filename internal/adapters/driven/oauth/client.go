// Package oauth wraps golang.org/x/oauth2 for the provider gateways.
//
// A Client builds authorization URLs with the standard query parameters
// (client_id, redirect_uri, response_type=code, scope, state) plus any
// provider-specific extras, and exchanges authorization codes for
// domain.AccessCredential values.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// DefaultTimeout bounds token endpoint requests.
const DefaultTimeout = 30 * time.Second

// Client performs the authorization-code grant for one provider.
type Client struct {
	provider   domain.Provider
	config     *oauth2.Config
	authParams []oauth2.AuthCodeOption
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithAuthParam adds a query parameter to every authorization URL.
func WithAuthParam(key, value string) Option {
	return func(c *Client) {
		c.authParams = append(c.authParams, oauth2.SetAuthURLParam(key, value))
	}
}

// WithHTTPClient sets the client used for token requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for provider from cfg.
func NewClient(provider domain.Provider, cfg domain.ProviderOAuthConfig, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURI,
			Scopes:      cfg.Scopes,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider this client authorizes against.
func (c *Client) Provider() domain.Provider {
	return c.provider
}

// ClientID returns the OAuth application's client id.
func (c *Client) ClientID() string {
	return c.config.ClientID
}

// ClientSecret returns the OAuth application's client secret.
func (c *Client) ClientSecret() string {
	return c.config.ClientSecret
}

// RedirectURI returns the registered callback URI.
func (c *Client) RedirectURI() string {
	return c.config.RedirectURL
}

// AuthorizeURL returns the authorization URL carrying state.
func (c *Client) AuthorizeURL(state string) string {
	return c.config.AuthCodeURL(state, c.authParams...)
}

// Exchange trades code for a credential. Tokens without an expiry are
// given the default lifetime so that every stored credential expires.
func (c *Client) Exchange(ctx context.Context, code string) (*domain.AccessCredential, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", domain.ErrInvalidInput)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
			return nil, fmt.Errorf("token error: %s - %s", retrieveErr.ErrorCode, retrieveErr.ErrorDescription)
		}
		return nil, fmt.Errorf("token request: %w", err)
	}

	return c.credentialFrom(token), nil
}

// HTTPClient returns an HTTP client that authenticates requests with cred.
func (c *Client) HTTPClient(ctx context.Context, cred domain.AccessCredential) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   cred.TokenType,
	})
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = DefaultTimeout
	return hc
}

func (c *Client) credentialFrom(token *oauth2.Token) *domain.AccessCredential {
	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = c.now().Add(domain.DefaultTokenTTL)
	}
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &domain.AccessCredential{
		Provider:     c.provider,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    tokenType,
		ExpiresAt:    expiry.UTC(),
	}
}
