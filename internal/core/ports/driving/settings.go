package driving

import "github.com/custodia-labs/revlink/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves current application settings, filling defaults.
	Get() (*domain.AppSettings, error)

	// SetGatewayMode switches between simulated and live provider calls.
	SetGatewayMode(mode domain.GatewayMode) error

	// SetProviderClient stores the OAuth application for a provider.
	SetProviderClient(provider domain.Provider, clientID, clientSecret string) error

	// SetBaseURL updates the public origin used for callbacks and webhooks.
	SetBaseURL(baseURL string) error
}
