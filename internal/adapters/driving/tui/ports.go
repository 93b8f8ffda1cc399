// Package tui provides an interactive terminal dashboard for revlink.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// OAuth toggles provider connections.
	OAuth driving.OAuthService

	// Webhooks manages repository webhooks.
	Webhooks driving.WebhookService

	// Deliveries lists and simulates webhook deliveries.
	Deliveries driving.DeliveryService

	// Settings decides whether connections are simulated. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.OAuth == nil {
		return ErrMissingOAuthService
	}
	if p.Webhooks == nil {
		return ErrMissingWebhookService
	}
	if p.Deliveries == nil {
		return ErrMissingDeliveryService
	}
	return nil
}
