package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Server hosts the callback routes, and any others mounted on its mux,
// on a local listener.
type Server struct {
	mu       sync.Mutex
	addr     string
	mux      *http.ServeMux
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates a server that will listen on addr.
func NewServer(addr string) *Server {
	return &Server{
		addr:    addr,
		mux:     http.NewServeMux(),
		errChan: make(chan error, 1),
	}
}

// Mux returns the server's request multiplexer.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

// Start begins serving in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()
	return nil
}

// Errors reports a failure of the background serve loop.
func (s *Server) Errors() <-chan error {
	return s.errChan
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// WaitForResult blocks until a callback completes, the server fails or
// ctx ends.
func WaitForResult(ctx context.Context, h *CallbackHandler, s *Server) (Result, error) {
	select {
	case res := <-h.Results():
		return res, nil
	case err := <-s.Errors():
		return Result{}, err
	case <-ctx.Done():
		return Result{}, fmt.Errorf("timeout waiting for authorization callback: %w", ctx.Err())
	}
}
