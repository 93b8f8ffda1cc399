package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/revlink/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil))

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Server, settings.Server)
	assert.Equal(t, defaults.Gateway, settings.Gateway)
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.Server.BaseURL, settings.Webhook.BaseURL)

	github := settings.Providers[domain.ProviderGitHub]
	assert.Equal(t, "demo-client-id", github.ClientID)
	assert.Equal(t, []string{"repo", "read:user", "write:repo_hook"}, github.Scopes)
	assert.Equal(t, defaults.Server.BaseURL+"/oauth/callback/github", github.RedirectURI)
	assert.Len(t, settings.Providers, len(domain.AllProviders()))
	assert.Equal(t, ":memory:", settings.ConfigPath)
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"server.base_url":            "https://revlink.example.com/",
		"gateway.mode":               "live",
		"storage.backend":            "memory",
		"providers.jira.client_id":   "jira-app",
		"providers.jira.scopes":      []any{"read:jira-work"},
		"providers.github.token_url": "https://ghe.example.com/login/oauth/access_token",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, "https://revlink.example.com", settings.Server.BaseURL)
	assert.Equal(t, "https://revlink.example.com", settings.Webhook.BaseURL)
	assert.Equal(t, domain.GatewayLive, settings.Gateway)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)

	jira := settings.Providers[domain.ProviderJira]
	assert.Equal(t, "jira-app", jira.ClientID)
	assert.Equal(t, []string{"read:jira-work"}, jira.Scopes)
	assert.Equal(t, "https://revlink.example.com/oauth/callback/jira", jira.RedirectURI)
	assert.Equal(t, "https://ghe.example.com/login/oauth/access_token",
		settings.Providers[domain.ProviderGitHub].TokenURL)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"gateway.mode":    "sometimes",
		"storage.backend": "postgres",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.GatewaySimulated, settings.Gateway)
	assert.Equal(t, domain.StorageSQLite, settings.Storage.Backend)
}

func TestSettingsService_SetGatewayMode(t *testing.T) {
	store := memory.NewConfigStore(nil)
	service := NewSettingsService(store)

	require.NoError(t, service.SetGatewayMode(domain.GatewayLive))
	assert.Equal(t, "live", store.GetString("gateway.mode"))

	assert.ErrorIs(t, service.SetGatewayMode("bogus"), domain.ErrInvalidInput)
}

func TestSettingsService_SetProviderClient(t *testing.T) {
	store := memory.NewConfigStore(nil)
	service := NewSettingsService(store)

	require.NoError(t, service.SetProviderClient(domain.ProviderGitHub, "id", "secret"))
	assert.Equal(t, "id", store.GetString("providers.github.client_id"))
	assert.Equal(t, "secret", store.GetString("providers.github.client_secret"))

	assert.ErrorIs(t, service.SetProviderClient("gitlab", "id", ""), domain.ErrUnsupportedProvider)
	assert.ErrorIs(t, service.SetProviderClient(domain.ProviderGitHub, "", ""), domain.ErrInvalidInput)
}

func TestSettingsService_SetBaseURL(t *testing.T) {
	store := memory.NewConfigStore(nil)
	service := NewSettingsService(store)

	require.NoError(t, service.SetBaseURL("https://hooks.example.com/"))
	assert.Equal(t, "https://hooks.example.com", store.GetString("server.base_url"))

	for _, bad := range []string{"", "ftp://x", "not a url", "https://"} {
		assert.ErrorIs(t, service.SetBaseURL(bad), domain.ErrInvalidInput, bad)
	}
}
