// Package env layers environment variable overrides over a driven.ConfigStore.
//
// Overrides are read once with caarlos0/env and take precedence over the
// file for reads. Writes go to the underlying store, so a value set while
// an override is active only becomes visible once the variable is unset.
package env

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// Overrides holds the recognised environment variables.
type Overrides struct {
	BaseURL     string `env:"REVLINK_BASE_URL"`
	GatewayMode string `env:"REVLINK_GATEWAY_MODE"`
	DataDir     string `env:"REVLINK_DATA_DIR"`

	GitHubClientID        string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret    string `env:"GITHUB_CLIENT_SECRET"`
	BitbucketClientID     string `env:"BITBUCKET_CLIENT_ID"`
	BitbucketClientSecret string `env:"BITBUCKET_CLIENT_SECRET"`
	JiraClientID          string `env:"JIRA_CLIENT_ID"`
	JiraClientSecret      string `env:"JIRA_CLIENT_SECRET"`
}

// Parse reads overrides from the process environment.
func Parse() (Overrides, error) {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return Overrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// ParseFrom reads overrides from environ instead of the process environment.
func ParseFrom(environ map[string]string) (Overrides, error) {
	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		return Overrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// Keys maps the set overrides to their config keys.
func (o Overrides) Keys() map[string]string {
	keys := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			keys[key] = value
		}
	}
	set("server.base_url", o.BaseURL)
	set("gateway.mode", o.GatewayMode)
	set("storage.data_dir", o.DataDir)
	set("providers.github.client_id", o.GitHubClientID)
	set("providers.github.client_secret", o.GitHubClientSecret)
	set("providers.bitbucket.client_id", o.BitbucketClientID)
	set("providers.bitbucket.client_secret", o.BitbucketClientSecret)
	set("providers.jira.client_id", o.JiraClientID)
	set("providers.jira.client_secret", o.JiraClientSecret)
	return keys
}

// Ensure Store implements the interface.
var _ driven.ConfigStore = (*Store)(nil)

// Store is a driven.ConfigStore whose string reads prefer the environment.
type Store struct {
	driven.ConfigStore
	overrides map[string]string
}

// Layer wraps base with overrides.
func Layer(base driven.ConfigStore, overrides Overrides) *Store {
	return &Store{
		ConfigStore: base,
		overrides:   overrides.Keys(),
	}
}

// Get returns the override for key if set, otherwise the stored value.
func (s *Store) Get(key string) (any, bool) {
	if v, ok := s.overrides[key]; ok {
		return v, true
	}
	return s.ConfigStore.Get(key)
}

// GetString returns the override for key if set, otherwise the stored value.
func (s *Store) GetString(key string) string {
	if v, ok := s.overrides[key]; ok {
		return v
	}
	return s.ConfigStore.GetString(key)
}

// Overridden reports whether key is currently taken from the environment.
func (s *Store) Overridden(key string) bool {
	_, ok := s.overrides[key]
	return ok
}
