package domain

import "time"

// PresentationMode controls how an authorization URL is shown to the user.
type PresentationMode string

const (
	// PresentationPopup opens the authorization page on a secondary surface
	// (a new browser window) and leaves the caller in place.
	PresentationPopup PresentationMode = "popup"
	// PresentationRedirect hands the whole navigation over to the
	// authorization page.
	PresentationRedirect PresentationMode = "redirect"
	// PresentationSimulated skips the handshake entirely and connects
	// immediately with a locally minted credential.
	PresentationSimulated PresentationMode = "simulated"
)

// IsValid returns true if the mode is recognised.
func (m PresentationMode) IsValid() bool {
	switch m {
	case PresentationPopup, PresentationRedirect, PresentationSimulated:
		return true
	default:
		return false
	}
}

// AuthorizationRequest is a started authorization round trip.
type AuthorizationRequest struct {
	Provider    Provider         `json:"provider"`
	URL         string           `json:"url"`
	State       string           `json:"state"`
	RedirectURI string           `json:"redirectUri"`
	Mode        PresentationMode `json:"mode"`
}

// PendingAuthorization records which provider the current CSRF state was
// issued for. It lets a generic callback endpoint route the response.
type PendingAuthorization struct {
	Provider    Provider  `json:"provider"`
	RedirectURI string    `json:"redirectUri,omitempty"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// ProviderOAuthConfig is the OAuth application registered with a provider.
type ProviderOAuthConfig struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty"`
	Scopes       []string `json:"scopes"`
	AuthURL      string   `json:"auth_url"`
	TokenURL     string   `json:"token_url"`
	RedirectURI  string   `json:"redirect_uri"`
}

// DefaultProviderOAuthConfig returns the endpoints and scopes revlink uses
// for provider when nothing is configured. baseURL is the public origin
// the callback routes are served under.
func DefaultProviderOAuthConfig(provider Provider, baseURL string) ProviderOAuthConfig {
	cfg := ProviderOAuthConfig{
		ClientID:    "demo-client-id",
		RedirectURI: baseURL + "/oauth/callback/" + provider.String(),
	}
	switch provider {
	case ProviderGitHub:
		cfg.AuthURL = "https://github.com/login/oauth/authorize"
		cfg.TokenURL = "https://github.com/login/oauth/access_token"
		cfg.Scopes = []string{"repo", "read:user", "write:repo_hook"}
	case ProviderBitbucket:
		cfg.AuthURL = "https://bitbucket.org/site/oauth2/authorize"
		cfg.TokenURL = "https://bitbucket.org/site/oauth2/access_token"
		cfg.Scopes = []string{"repository", "pullrequest", "webhook"}
	case ProviderJira:
		cfg.AuthURL = "https://auth.atlassian.com/authorize"
		cfg.TokenURL = "https://auth.atlassian.com/oauth/token"
		cfg.Scopes = []string{"read:jira-work", "read:jira-user"}
	}
	return cfg
}
