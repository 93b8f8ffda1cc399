// Package app assembles the configuration, storage, gateways and core
// services into one running application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/revlink/internal/adapters/driven/config/env"
	"github.com/custodia-labs/revlink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/kv"
	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/revlink/internal/connectors"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/core/services"
	"github.com/custodia-labs/revlink/internal/logger"
)

// Options controls how the application is assembled.
type Options struct {
	// Config is the base configuration store. Nil opens the TOML file in
	// ConfigDir.
	Config driven.ConfigStore
	// ConfigDir is the directory of config.toml. Empty means ~/.revlink.
	ConfigDir string
	// Environ replaces the process environment for overrides when non-nil.
	Environ map[string]string
	// Presenter shows authorization URLs. Nil leaves them to the caller.
	Presenter driven.AuthPresenter
}

// App holds the assembled services.
type App struct {
	Config     driven.ConfigStore
	Settings   *services.SettingsService
	OAuth      *services.OAuthService
	Webhooks   *services.WebhookService
	Deliveries *services.DeliveryService

	file     *file.ConfigStore
	gateways *services.GatewayRegistry
	store    driven.KeyValueStore
	closers  []io.Closer
}

// New assembles the application.
func New(opts Options) (*App, error) {
	a := &App{}

	base := opts.Config
	if base == nil {
		fs, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		a.file = fs
		base = fs
	}

	overrides, err := parseOverrides(opts.Environ)
	if err != nil {
		return nil, err
	}
	a.Config = env.Layer(base, overrides)
	a.Settings = services.NewSettingsService(a.Config)

	settings, err := a.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("resolving settings: %w", err)
	}

	if err := a.openStorage(settings.Storage); err != nil {
		return nil, err
	}
	layout := kv.New(a.store)

	a.gateways = services.NewGatewayRegistry(connectors.NewGateways(settings)...)
	credentials := services.NewCredentialService(layout.CredentialStore())
	guard := services.NewStateGuard(layout.StateStore())

	a.OAuth = services.NewOAuthService(credentials, guard, a.gateways, opts.Presenter)
	a.Webhooks = services.NewWebhookService(
		layout.WebhookStore(), a.OAuth, credentials, a.gateways, settings.Webhook.BaseURL,
	)
	a.Deliveries = services.NewDeliveryService(layout.DeliveryStore(), layout.WebhookStore())

	logger.Debug("gateway mode %s, storage %s", settings.Gateway, settings.Storage.Backend)
	return a, nil
}

func parseOverrides(environ map[string]string) (env.Overrides, error) {
	if environ != nil {
		return env.ParseFrom(environ)
	}
	return env.Parse()
}

func (a *App) openStorage(cfg domain.StorageSettings) error {
	if cfg.Backend == domain.StorageMemory {
		a.store = memory.NewKeyValueStore()
		return nil
	}
	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store)
	return nil
}

// Reload re-resolves settings and replaces the provider gateways. The
// webhook base URL and storage backend only change on restart.
func (a *App) Reload() error {
	settings, err := a.Settings.Get()
	if err != nil {
		return err
	}
	for _, gw := range connectors.NewGateways(settings) {
		a.gateways.Register(gw)
	}
	logger.Info("settings reloaded (gateway mode %s)", settings.Gateway)
	return nil
}

// Watch reloads whenever the config file changes. It blocks until ctx is
// done and returns immediately when the config is not file backed.
func (a *App) Watch(ctx context.Context) error {
	if a.file == nil {
		return nil
	}
	return a.file.Watch(ctx, func() {
		if err := a.Reload(); err != nil {
			logger.Warn("applying config change: %v", err)
		}
	})
}

// Close releases the storage.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
