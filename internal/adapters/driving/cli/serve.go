package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/revlink/internal/adapters/driving/oauth"
	"github.com/custodia-labs/revlink/internal/adapters/driving/webhook"
	"github.com/custodia-labs/revlink/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve OAuth callbacks and webhook deliveries",
	Long: `Start the HTTP server that completes OAuth authorizations and receives
webhook deliveries from providers.

Routes:
  GET  /oauth/callback/{provider}  OAuth redirect target
  GET  /callback                   OAuth redirect for the pending provider
  POST /api/webhooks/{provider}    Signed webhook deliveries

Configuration changes are applied while the server runs.`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if oauthService == nil || webhookService == nil || deliveryService == nil || settingsService == nil {
		return errNotConfigured
	}

	addr := serveAddr
	if addr == "" {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = settings.Server.ListenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := oauth.NewServer(addr)
	oauth.NewCallbackHandler(oauthService).Register(server.Mux())
	webhook.NewReceiver(webhookService, deliveryService).Register(server.Mux())
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()
	cmd.Printf("Listening on http://%s\n", server.Addr())

	if watchConfig != nil {
		go watch(ctx, watchConfig)
	}

	select {
	case <-ctx.Done():
		cmd.Println("Shutting down.")
		return nil
	case err := <-server.Errors():
		return err
	}
}

func watch(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		logger.Warn("config watch stopped: %v", err)
	}
}
