package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
)

// GatewayRegistry maps each provider to the gateway that talks to it.
type GatewayRegistry struct {
	mu       sync.RWMutex
	gateways map[domain.Provider]driven.ProviderGateway
}

// NewGatewayRegistry creates a registry holding gateways.
func NewGatewayRegistry(gateways ...driven.ProviderGateway) *GatewayRegistry {
	r := &GatewayRegistry{
		gateways: make(map[domain.Provider]driven.ProviderGateway),
	}
	for _, gw := range gateways {
		r.Register(gw)
	}
	return r
}

// Register adds or replaces the gateway for its provider.
func (r *GatewayRegistry) Register(gw driven.ProviderGateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[gw.Provider()] = gw
}

// Get returns the gateway for provider.
func (r *GatewayRegistry) Get(provider domain.Provider) (driven.ProviderGateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gw, ok := r.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("%w: no gateway for %q", domain.ErrUnsupportedProvider, provider)
	}
	return gw, nil
}

// Providers returns the providers with a registered gateway.
func (r *GatewayRegistry) Providers() []domain.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]domain.Provider, 0, len(r.gateways))
	for _, p := range domain.AllProviders() {
		if _, ok := r.gateways[p]; ok {
			providers = append(providers, p)
		}
	}
	return providers
}
