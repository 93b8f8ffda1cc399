// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/revlink/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewConnections lists provider connections.
	ViewConnections
	// ViewWebhooks lists repository webhooks.
	ViewWebhooks
	// ViewDeliveries lists the deliveries of one webhook.
	ViewDeliveries
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewConnections:
		return "connections"
	case ViewWebhooks:
		return "webhooks"
	case ViewDeliveries:
		return "deliveries"
	default:
		return "unknown"
	}
}

// Connection is the state of one provider.
type Connection struct {
	Provider domain.Provider
	Info     *domain.UserInfo
}

// ConnectionsLoaded carries the connection state of every provider.
type ConnectionsLoaded struct {
	Connections []Connection
	Err         error
}

// ConnectionToggled signals a connect or disconnect finished. Request is
// set when authorization continues in the browser.
type ConnectionToggled struct {
	Provider domain.Provider
	Request  *domain.AuthorizationRequest
	Err      error
}

// WebhooksLoaded carries the webhook list.
type WebhooksLoaded struct {
	Webhooks []domain.WebhookConfig
	Err      error
}

// WebhookChanged signals a create, delete, test or simulate finished.
type WebhookChanged struct {
	Message string
	Err     error
}

// WebhookSelected opens the deliveries of a webhook.
type WebhookSelected struct {
	Webhook domain.WebhookConfig
}

// DeliveriesLoaded carries the deliveries of a webhook.
type DeliveriesLoaded struct {
	WebhookID  string
	Deliveries []domain.WebhookEvent
	Err        error
}

// DeliveryProcessed signals a delivery was marked processed.
type DeliveryProcessed struct {
	EventID string
	Err     error
}
