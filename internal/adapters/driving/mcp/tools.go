package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// errNoDeliveries is returned by delivery tools when the port is absent.
var errNoDeliveries = errors.New("delivery log is not available")

// EmptyInput is the input schema of tools that take no arguments.
type EmptyInput struct{}

// ProviderInput names a provider.
type ProviderInput struct {
	Provider string `json:"provider" jsonschema:"provider name: github, bitbucket or jira"`
}

// WebhookIDInput names a webhook.
type WebhookIDInput struct {
	WebhookID string `json:"webhook_id" jsonschema:"the webhook identifier"`
}

// CreateWebhookInput is the input schema for the create_webhook tool.
type CreateWebhookInput struct {
	Provider       string `json:"provider" jsonschema:"provider name: github or bitbucket"`
	RepositoryID   int64  `json:"repository_id" jsonschema:"numeric repository identifier"`
	RepositoryName string `json:"repository_name" jsonschema:"repository full name, for example acme/web"`
}

// SimulateEventInput is the input schema for the simulate_event tool.
type SimulateEventInput struct {
	RepositoryID int64  `json:"repository_id" jsonschema:"numeric repository identifier"`
	Event        string `json:"event,omitempty" jsonschema:"event name (defaults to the webhook's first event)"`
}

// ConnectionOutput describes one provider connection.
type ConnectionOutput struct {
	Provider  string     `json:"provider"`
	Connected bool       `json:"connected"`
	Account   string     `json:"account,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// StatusOutput is the output schema for the connection_status tool.
type StatusOutput struct {
	Connections []ConnectionOutput `json:"connections"`
}

// AuthorizeOutput is the output schema for the authorize tool.
type AuthorizeOutput struct {
	URL         string `json:"url"`
	RedirectURI string `json:"redirect_uri"`
}

// MessageOutput reports the outcome of a state-changing tool.
type MessageOutput struct {
	Message string `json:"message"`
}

// WebhookOutput describes a webhook without its secret.
type WebhookOutput struct {
	ID              string     `json:"id"`
	Provider        string     `json:"provider"`
	RepositoryID    int64      `json:"repository_id"`
	RepositoryName  string     `json:"repository_name"`
	URL             string     `json:"url"`
	Events          []string   `json:"events"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	LastTriggeredAt *time.Time `json:"last_triggered_at,omitempty"`
	// RepositoryActive reports whether the repository has an active
	// webhook. Only list_webhooks fills it.
	RepositoryActive bool `json:"repository_active"`
}

// WebhooksOutput is the output schema for the list_webhooks tool.
type WebhooksOutput struct {
	Webhooks []WebhookOutput `json:"webhooks"`
	Count    int             `json:"count"`
}

// DeliveryOutput describes one recorded delivery.
type DeliveryOutput struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Processed bool      `json:"processed"`
	Payload   string    `json:"payload,omitempty"`
}

// DeliveriesOutput is the output schema for the list_deliveries tool.
type DeliveriesOutput struct {
	Deliveries []DeliveryOutput `json:"deliveries"`
	Count      int              `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "connection_status",
		Description: "Show which providers are connected",
	}, s.handleStatus)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "authorize",
		Description: "Start an OAuth authorization and return the URL the user must visit",
	}, s.handleAuthorize)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "connect_simulated",
		Description: "Connect a provider with a demo credential, skipping OAuth",
	}, s.handleConnectSimulated)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "disconnect",
		Description: "Revoke and forget a provider connection",
	}, s.handleDisconnect)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_webhooks",
		Description: "List repository webhooks",
	}, s.handleListWebhooks)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_webhook",
		Description: "Register the pull request webhook for a repository",
	}, s.handleCreateWebhook)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_webhook",
		Description: "Remove a webhook",
	}, s.handleDeleteWebhook)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "test_webhook",
		Description: "Ask the provider to send a test delivery",
	}, s.handleTestWebhook)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_deliveries",
		Description: "List the deliveries recorded for a webhook",
	}, s.handleListDeliveries)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "simulate_event",
		Description: "Record a synthetic pull request event for a repository",
	}, s.handleSimulateEvent)
}

func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	output := StatusOutput{Connections: make([]ConnectionOutput, 0, len(domain.AllProviders()))}
	for _, p := range domain.AllProviders() {
		conn := ConnectionOutput{Provider: p.String()}
		info, err := s.ports.OAuth.UserInfo(ctx, p)
		switch {
		case errors.Is(err, domain.ErrNotConnected):
		case err != nil:
			return nil, StatusOutput{}, err
		default:
			expires := info.TokenExpiresAt
			conn.Connected = true
			conn.Account = info.Account
			conn.ExpiresAt = &expires
		}
		output.Connections = append(output.Connections, conn)
	}
	return nil, output, nil
}

func (s *Server) handleAuthorize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProviderInput,
) (*mcp.CallToolResult, AuthorizeOutput, error) {
	provider, err := domain.ParseProvider(input.Provider)
	if err != nil {
		return nil, AuthorizeOutput{}, err
	}
	req, err := s.ports.OAuth.BeginAuthorization(ctx, provider, domain.PresentationRedirect)
	if err != nil && req == nil {
		return nil, AuthorizeOutput{}, err
	}
	return nil, AuthorizeOutput{URL: req.URL, RedirectURI: req.RedirectURI}, nil
}

func (s *Server) handleConnectSimulated(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProviderInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	provider, err := domain.ParseProvider(input.Provider)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	if err := s.ports.OAuth.SimulateConnect(ctx, provider); err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{Message: fmt.Sprintf("connected to %s (simulated)", provider)}, nil
}

func (s *Server) handleDisconnect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProviderInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	provider, err := domain.ParseProvider(input.Provider)
	if err != nil {
		return nil, MessageOutput{}, err
	}
	if err := s.ports.OAuth.Disconnect(ctx, provider); err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{Message: fmt.Sprintf("disconnected from %s", provider)}, nil
}

func (s *Server) handleListWebhooks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, WebhooksOutput, error) {
	webhooks, err := s.ports.Webhooks.ListAll(ctx)
	if err != nil {
		return nil, WebhooksOutput{}, err
	}
	output := WebhooksOutput{
		Webhooks: make([]WebhookOutput, len(webhooks)),
		Count:    len(webhooks),
	}
	for i := range webhooks {
		output.Webhooks[i] = toWebhookOutput(webhooks[i])
		output.Webhooks[i].RepositoryActive = s.ports.Webhooks.HasActiveWebhook(ctx, webhooks[i].RepositoryID)
	}
	return nil, output, nil
}

func (s *Server) handleCreateWebhook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateWebhookInput,
) (*mcp.CallToolResult, WebhookOutput, error) {
	provider, err := domain.ParseProvider(input.Provider)
	if err != nil {
		return nil, WebhookOutput{}, err
	}
	hook, err := s.ports.Webhooks.Create(ctx, input.RepositoryID, input.RepositoryName, provider)
	if err != nil {
		return nil, WebhookOutput{}, err
	}
	return nil, toWebhookOutput(*hook), nil
}

func (s *Server) handleDeleteWebhook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WebhookIDInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	if err := s.ports.Webhooks.Delete(ctx, input.WebhookID); err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{Message: "deleted " + input.WebhookID}, nil
}

func (s *Server) handleTestWebhook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WebhookIDInput,
) (*mcp.CallToolResult, MessageOutput, error) {
	if err := s.ports.Webhooks.Test(ctx, input.WebhookID); err != nil {
		return nil, MessageOutput{}, err
	}
	return nil, MessageOutput{Message: "test delivery requested for " + input.WebhookID}, nil
}

func (s *Server) handleListDeliveries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WebhookIDInput,
) (*mcp.CallToolResult, DeliveriesOutput, error) {
	if s.ports.Deliveries == nil {
		return nil, DeliveriesOutput{}, errNoDeliveries
	}
	events, err := s.ports.Deliveries.DeliveriesFor(ctx, input.WebhookID)
	if err != nil {
		return nil, DeliveriesOutput{}, err
	}
	output := DeliveriesOutput{
		Deliveries: make([]DeliveryOutput, len(events)),
		Count:      len(events),
	}
	for i, e := range events {
		output.Deliveries[i] = DeliveryOutput{
			ID:        e.ID,
			Event:     e.Event,
			Timestamp: e.Timestamp,
			Processed: e.Processed,
			Payload:   string(e.Payload),
		}
	}
	return nil, output, nil
}

func (s *Server) handleSimulateEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SimulateEventInput,
) (*mcp.CallToolResult, DeliveryOutput, error) {
	if s.ports.Deliveries == nil {
		return nil, DeliveryOutput{}, errNoDeliveries
	}
	e, err := s.ports.Deliveries.SimulateEvent(ctx, input.RepositoryID, input.Event)
	if err != nil {
		return nil, DeliveryOutput{}, err
	}
	return nil, DeliveryOutput{
		ID:        e.ID,
		Event:     e.Event,
		Timestamp: e.Timestamp,
		Processed: e.Processed,
		Payload:   string(e.Payload),
	}, nil
}

func toWebhookOutput(w domain.WebhookConfig) WebhookOutput {
	return WebhookOutput{
		ID:              w.ID,
		Provider:        w.Provider.String(),
		RepositoryID:    w.RepositoryID,
		RepositoryName:  w.RepositoryName,
		URL:             w.URL,
		Events:          w.Events,
		Status:          string(w.Status),
		CreatedAt:       w.CreatedAt,
		LastTriggeredAt: w.LastTriggeredAt,
	}
}
