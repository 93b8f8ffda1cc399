package connectors

import (
	"github.com/custodia-labs/revlink/internal/adapters/driven/oauth"
	"github.com/custodia-labs/revlink/internal/connectors/bitbucket"
	"github.com/custodia-labs/revlink/internal/connectors/github"
	"github.com/custodia-labs/revlink/internal/connectors/jira"
	"github.com/custodia-labs/revlink/internal/connectors/simulated"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// NewGateways returns one gateway per provider configured in settings.
func NewGateways(settings *domain.AppSettings) []driven.ProviderGateway {
	gateways := make([]driven.ProviderGateway, 0, len(domain.AllProviders()))
	for _, p := range domain.AllProviders() {
		cfg, ok := settings.Providers[p]
		if !ok {
			cfg = domain.DefaultProviderOAuthConfig(p, settings.Server.BaseURL)
		}
		gateways = append(gateways, NewGateway(p, cfg, settings.Gateway))
	}
	return gateways
}

// NewGateway returns the gateway for provider in mode.
func NewGateway(provider domain.Provider, cfg domain.ProviderOAuthConfig, mode domain.GatewayMode) driven.ProviderGateway {
	var opts []oauth.Option
	if provider == domain.ProviderJira {
		opts = jira.AuthParams()
	}
	client := oauth.NewClient(provider, cfg, opts...)

	if mode != domain.GatewayLive {
		return simulated.New(client)
	}

	switch provider {
	case domain.ProviderGitHub:
		return github.New(client)
	case domain.ProviderBitbucket:
		return bitbucket.New(client)
	case domain.ProviderJira:
		return jira.New(client, "")
	default:
		return simulated.New(client)
	}
}
