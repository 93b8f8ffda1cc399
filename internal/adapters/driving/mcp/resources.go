package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for revlink resources.
	uriScheme = "revlink://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "webhooks",
		Name:        "webhooks",
		Description: "All registered repository webhooks",
		MIMEType:    "application/json",
	}, s.handleWebhooksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "webhooks/{webhookId}/deliveries",
		Name:        "webhook-deliveries",
		Description: "Deliveries recorded for a specific webhook",
		MIMEType:    "application/json",
	}, s.handleDeliveriesResource)
}

// handleWebhooksResource returns every webhook, without secrets.
func (s *Server) handleWebhooksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	webhooks, err := s.ports.Webhooks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}

	infos := make([]WebhookOutput, len(webhooks))
	for i := range webhooks {
		infos[i] = toWebhookOutput(webhooks[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleDeliveriesResource returns the deliveries of one webhook.
func (s *Server) handleDeliveriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Deliveries == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract webhookId from URI: revlink://webhooks/{webhookId}/deliveries
	webhookID := extractWebhookID(req.Params.URI)
	if webhookID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	events, err := s.ports.Deliveries.DeliveriesFor(ctx, webhookID)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	return jsonResult(req.Params.URI, events)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractWebhookID extracts the webhook ID from a URI like revlink://webhooks/{webhookId}/deliveries.
func extractWebhookID(uri string) string {
	const prefix = uriScheme + "webhooks/"
	const suffix = "/deliveries"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
