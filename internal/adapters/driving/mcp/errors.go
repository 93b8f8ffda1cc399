// Package mcp provides an MCP (Model Context Protocol) server adapter for revlink.
// It lets AI assistants inspect provider connections, manage repository
// webhooks and read recorded deliveries.
package mcp

import "errors"

var (
	// ErrMissingOAuthService is returned when the OAuth service is not provided.
	ErrMissingOAuthService = errors.New("mcp: oauth service is required")
	// ErrMissingWebhookService is returned when the webhook service is not provided.
	ErrMissingWebhookService = errors.New("mcp: webhook service is required")
)
