package domain

import (
	"fmt"
	"time"
)

// DefaultTokenTTL is the lifetime of credentials minted without a provider
// supplied expiry.
const DefaultTokenTTL = time.Hour

// AccessCredential is the token record issued for a provider after a
// successful authorization. At most one exists per provider.
type AccessCredential struct {
	// Provider owns this credential.
	Provider Provider `json:"provider"`
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"accessToken"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refreshToken,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"tokenType,omitempty"`
	// ExpiresAt is when the access token expires.
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpiredAt returns true if the credential has expired at now.
// A credential whose expiry equals now is expired.
func (c *AccessCredential) IsExpiredAt(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// IsExpired returns true if the credential has expired.
func (c *AccessCredential) IsExpired() bool {
	return c.IsExpiredAt(time.Now())
}

// HasRefreshToken returns true if a refresh token is available.
func (c *AccessCredential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// UserInfo summarises the connection held for a provider.
type UserInfo struct {
	Provider       Provider  `json:"provider"`
	Connected      bool      `json:"connected"`
	TokenExpiresAt time.Time `json:"tokenExpiresAt"`
	// Account is the provider login, when the gateway can resolve it.
	Account string `json:"account,omitempty"`
}

// NewDemoCredential mints a local credential for provider, valid for
// DefaultTokenTTL from now. Used wherever no real token endpoint is called.
func NewDemoCredential(provider Provider, now time.Time) AccessCredential {
	stamp := now.UnixMilli()
	return AccessCredential{
		Provider:     provider,
		AccessToken:  fmt.Sprintf("demo_%s_token_%d", provider, stamp),
		RefreshToken: fmt.Sprintf("demo_%s_refresh_%d", provider, stamp),
		TokenType:    "Bearer",
		ExpiresAt:    now.Add(DefaultTokenTTL),
	}
}
