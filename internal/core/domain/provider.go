package domain

import (
	"fmt"
	"strings"
)

// Provider identifies a third-party service that revlink holds a trust
// relationship with. Providers are used as keys everywhere.
type Provider string

const (
	// ProviderGitHub is github.com.
	ProviderGitHub Provider = "github"
	// ProviderBitbucket is bitbucket.org.
	ProviderBitbucket Provider = "bitbucket"
	// ProviderJira is Atlassian Jira Cloud.
	ProviderJira Provider = "jira"
)

// AllProviders returns every supported provider in display order.
func AllProviders() []Provider {
	return []Provider{ProviderGitHub, ProviderBitbucket, ProviderJira}
}

// ParseProvider converts a user-supplied name into a Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
	return p, nil
}

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGitHub, ProviderBitbucket, ProviderJira:
		return true
	default:
		return false
	}
}

// SupportsWebhooks returns true if repositories on this provider can
// receive webhook subscriptions. Jira is connect-only.
func (p Provider) SupportsWebhooks() bool {
	return p == ProviderGitHub || p == ProviderBitbucket
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// DisplayName returns a human-readable name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderGitHub:
		return "GitHub"
	case ProviderBitbucket:
		return "Bitbucket"
	case ProviderJira:
		return "Jira"
	default:
		return "Unknown"
	}
}
