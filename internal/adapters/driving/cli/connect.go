package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/revlink/internal/adapters/driving/oauth"
	"github.com/custodia-labs/revlink/internal/core/domain"
)

var connectCmd = &cobra.Command{
	Use:   "connect <provider>",
	Short: "Connect a provider account",
	Long: `Connect a GitHub, Bitbucket or Jira account.

By default the authorization page opens in your browser and revlink waits
for the provider to redirect back to the local callback server.

Examples:
  revlink connect github
  revlink connect bitbucket --redirect   # print the URL instead
  revlink connect jira --simulate        # store a demo credential`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: providerNames(),
	RunE:      runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <provider>",
	Short: "Revoke and forget a provider connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisconnect,
}

// Flags for connect.
var (
	connectSimulate bool
	connectRedirect bool
	connectTimeout  time.Duration
)

func init() {
	connectCmd.Flags().BoolVar(&connectSimulate, "simulate", false, "Connect immediately with a demo credential")
	connectCmd.Flags().BoolVar(&connectRedirect, "redirect", false, "Print the authorization URL instead of opening a browser")
	connectCmd.Flags().DurationVar(&connectTimeout, "timeout", 5*time.Minute, "How long to wait for the callback")
	connectCmd.MarkFlagsMutuallyExclusive("simulate", "redirect")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	if oauthService == nil || settingsService == nil {
		return errNotConfigured
	}
	provider, err := parseProvider(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if connectSimulate {
		if _, err := oauthService.Connect(ctx, provider, domain.PresentationSimulated); err != nil {
			return err
		}
		cmd.Printf("Connected to %s (simulated).\n", provider.DisplayName())
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	handler := oauth.NewCallbackHandler(oauthService)
	server := oauth.NewServer(settings.Server.ListenAddr)
	handler.Register(server.Mux())
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	mode := domain.PresentationPopup
	if connectRedirect {
		mode = domain.PresentationRedirect
	}
	if _, err := oauthService.Connect(ctx, provider, mode); err != nil {
		return err
	}
	cmd.Println("Waiting for authorization...")

	waitCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	res, err := oauth.WaitForResult(waitCtx, handler, server)
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	cmd.Printf("Connected to %s.\n", res.Provider.DisplayName())
	return nil
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	if oauthService == nil {
		return errNotConfigured
	}
	provider, err := parseProvider(args[0])
	if err != nil {
		return err
	}
	if err := oauthService.Disconnect(cmd.Context(), provider); err != nil {
		return err
	}
	cmd.Printf("Disconnected from %s.\n", provider.DisplayName())
	return nil
}

func parseProvider(name string) (domain.Provider, error) {
	p, err := domain.ParseProvider(name)
	if err != nil {
		return "", fmt.Errorf("%w (expected one of %v)", err, providerNames())
	}
	return p, nil
}

func providerNames() []string {
	names := make([]string, 0, len(domain.AllProviders()))
	for _, p := range domain.AllProviders() {
		names = append(names, p.String())
	}
	return names
}
