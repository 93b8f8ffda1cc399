package mcp

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/revlink/internal/app"
)

// newTestApp assembles an in-memory application with simulated gateways.
func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := memory.NewConfigStore(map[string]any{"storage.backend": "memory"})
	a, err := app.New(app.Options{Config: cfg, Environ: map[string]string{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()
	a := newTestApp(t)
	server, err := NewServer(&Ports{OAuth: a.OAuth, Webhooks: a.Webhooks, Deliveries: a.Deliveries})
	require.NoError(t, err)
	return server, a
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}
