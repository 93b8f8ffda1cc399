package tui

import "errors"

var (
	// ErrMissingOAuthService is returned when the OAuth service is not provided.
	ErrMissingOAuthService = errors.New("tui: oauth service is required")
	// ErrMissingWebhookService is returned when the webhook service is not provided.
	ErrMissingWebhookService = errors.New("tui: webhook service is required")
	// ErrMissingDeliveryService is returned when the delivery service is not provided.
	ErrMissingDeliveryService = errors.New("tui: delivery service is required")
)
