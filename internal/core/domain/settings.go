package domain

// GatewayMode selects how provider calls are performed.
type GatewayMode string

const (
	// GatewaySimulated performs exchanges, revocations and webhook calls
	// locally without touching the network.
	GatewaySimulated GatewayMode = "simulated"
	// GatewayLive calls the real provider APIs.
	GatewayLive GatewayMode = "live"
)

// IsValid returns true if the mode is recognised.
func (m GatewayMode) IsValid() bool {
	return m == GatewaySimulated || m == GatewayLive
}

// StorageBackend selects the key-value store implementation.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

// AppSettings holds the resolved application configuration.
type AppSettings struct {
	Server    ServerSettings
	Webhook   WebhookSettings
	Gateway   GatewayMode
	Storage   StorageSettings
	Providers map[Provider]ProviderOAuthConfig

	// ConfigPath is where the settings are stored.
	ConfigPath string
}

// ServerSettings configures the callback/receiver HTTP server.
type ServerSettings struct {
	// BaseURL is the public origin OAuth redirects come back to.
	BaseURL string
	// ListenAddr is the local address the server binds.
	ListenAddr string
}

// WebhookSettings configures webhook delivery URLs.
type WebhookSettings struct {
	// BaseURL is the public origin providers deliver events to.
	BaseURL string
}

// StorageSettings configures persistence.
type StorageSettings struct {
	Backend StorageBackend
	DataDir string
}

// DefaultAppSettings returns settings for a local demo install.
func DefaultAppSettings() AppSettings {
	base := "http://localhost:8787"
	providers := make(map[Provider]ProviderOAuthConfig)
	for _, p := range AllProviders() {
		providers[p] = DefaultProviderOAuthConfig(p, base)
	}
	return AppSettings{
		Server: ServerSettings{
			BaseURL:    base,
			ListenAddr: "127.0.0.1:8787",
		},
		Webhook:   WebhookSettings{BaseURL: base},
		Gateway:   GatewaySimulated,
		Storage:   StorageSettings{Backend: StorageSQLite},
		Providers: providers,
	}
}
