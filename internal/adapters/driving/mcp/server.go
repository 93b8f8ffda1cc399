package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/revlink/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long in-flight HTTP sessions may drain.
const shutdownTimeout = 5 * time.Second

const instructions = `revlink manages OAuth connections to GitHub, Bitbucket and Jira and the
pull request webhook registered for each repository. Connect a provider
before creating webhooks for its repositories. Jira has no repository
webhooks.`

// Server exposes connections, webhooks and deliveries as MCP tools and
// resources.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "revlink", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.runWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) runWithTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.server.Run(ctx, transport)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP listens on addr and serves until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is cancelled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down MCP server: %v", err)
		}
	}()

	logger.Debug("MCP server listening on %s", ln.Addr())
	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
