package mcp

import (
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// OAuth manages provider connections.
	OAuth driving.OAuthService

	// Webhooks manages repository webhooks.
	Webhooks driving.WebhookService

	// Deliveries reads and simulates webhook deliveries.
	Deliveries driving.DeliveryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.OAuth == nil {
		return ErrMissingOAuthService
	}
	if p.Webhooks == nil {
		return ErrMissingWebhookService
	}
	// Deliveries is optional; the delivery tools report it as unavailable.
	return nil
}
