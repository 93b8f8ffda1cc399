package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerBaseURL    = "server.base_url"
	keyServerListenAddr = "server.listen_addr"
	keyWebhookBaseURL   = "webhook.base_url"
	keyGatewayMode      = "gateway.mode"
	keyStorageBackend   = "storage.backend"
	keyStorageDataDir   = "storage.data_dir"

	providerKeyPrefix = "providers."
	fieldClientID     = "client_id"
	fieldClientSecret = "client_secret"
	fieldScopes       = "scopes"
	fieldAuthURL      = "auth_url"
	fieldTokenURL     = "token_url"
	fieldRedirectURI  = "redirect_uri"
)

// SettingsService resolves application settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get resolves current application settings. Unset keys take defaults;
// provider redirect URIs follow the configured base URL.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	baseURL := strings.TrimRight(s.getString(keyServerBaseURL, defaults.Server.BaseURL), "/")
	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			BaseURL:    baseURL,
			ListenAddr: s.getString(keyServerListenAddr, defaults.Server.ListenAddr),
		},
		Webhook: domain.WebhookSettings{
			BaseURL: strings.TrimRight(s.getString(keyWebhookBaseURL, baseURL), "/"),
		},
		Gateway: s.getGatewayMode(defaults.Gateway),
		Storage: domain.StorageSettings{
			Backend: s.getStorageBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir), // Empty means the default data directory
		},
		Providers:  make(map[domain.Provider]domain.ProviderOAuthConfig),
		ConfigPath: s.configStore.Path(),
	}

	for _, p := range domain.AllProviders() {
		settings.Providers[p] = s.getProviderConfig(p, domain.DefaultProviderOAuthConfig(p, baseURL))
	}
	return settings, nil
}

// SetGatewayMode switches between simulated and live provider calls.
func (s *SettingsService) SetGatewayMode(mode domain.GatewayMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: gateway mode %q", domain.ErrInvalidInput, mode)
	}
	return s.configStore.Set(keyGatewayMode, string(mode))
}

// SetProviderClient stores the OAuth application for a provider.
func (s *SettingsService) SetProviderClient(provider domain.Provider, clientID, clientSecret string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	if clientID == "" {
		return fmt.Errorf("%w: client id is required", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(providerKey(provider, fieldClientID), clientID); err != nil {
		return err
	}
	if clientSecret != "" {
		return s.configStore.Set(providerKey(provider, fieldClientSecret), clientSecret)
	}
	return nil
}

// SetBaseURL updates the public origin used for callbacks and webhooks.
func (s *SettingsService) SetBaseURL(baseURL string) error {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base url %q", domain.ErrInvalidInput, baseURL)
	}
	return s.configStore.Set(keyServerBaseURL, strings.TrimRight(baseURL, "/"))
}

func providerKey(provider domain.Provider, field string) string {
	return providerKeyPrefix + provider.String() + "." + field
}

func (s *SettingsService) getProviderConfig(
	provider domain.Provider,
	defaults domain.ProviderOAuthConfig,
) domain.ProviderOAuthConfig {
	cfg := domain.ProviderOAuthConfig{
		ClientID:     s.getString(providerKey(provider, fieldClientID), defaults.ClientID),
		ClientSecret: s.configStore.GetString(providerKey(provider, fieldClientSecret)),
		Scopes:       s.configStore.GetStringSlice(providerKey(provider, fieldScopes)),
		AuthURL:      s.getString(providerKey(provider, fieldAuthURL), defaults.AuthURL),
		TokenURL:     s.getString(providerKey(provider, fieldTokenURL), defaults.TokenURL),
		RedirectURI:  s.getString(providerKey(provider, fieldRedirectURI), defaults.RedirectURI),
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = defaults.Scopes
	}
	return cfg
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getGatewayMode(defaultVal domain.GatewayMode) domain.GatewayMode {
	mode := domain.GatewayMode(s.configStore.GetString(keyGatewayMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	switch b := domain.StorageBackend(s.configStore.GetString(keyStorageBackend)); b {
	case domain.StorageSQLite, domain.StorageMemory:
		return b
	default:
		return defaultVal
	}
}
