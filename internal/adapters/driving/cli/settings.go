package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the gateway mode, public base URL and the OAuth
applications used for each provider.

Environment variables such as REVLINK_BASE_URL and GITHUB_CLIENT_ID take
precedence over values stored here.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGatewayCmd = &cobra.Command{
	Use:   "gateway <simulated|live>",
	Short: "Set the gateway mode",
	Long: `Set whether provider calls are simulated locally or sent to the real APIs.

Available modes:
  simulated - Exchanges, revocations and webhook calls succeed locally
  live      - Calls GitHub, Bitbucket and Atlassian (requires OAuth apps)`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.GatewaySimulated), string(domain.GatewayLive)},
	RunE:      runSettingsGateway,
}

var settingsClientCmd = &cobra.Command{
	Use:   "client <provider>",
	Short: "Configure a provider's OAuth application",
	Long: `Store the client id and secret of a provider's OAuth application.

The secret is prompted for when --client-secret is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsClient,
}

var settingsBaseURLCmd = &cobra.Command{
	Use:   "base-url <url>",
	Short: "Set the public origin for callbacks and webhooks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsBaseURL,
}

// Flags for settings client.
var (
	clientID     string
	clientSecret string
)

func init() {
	settingsClientCmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID")
	settingsClientCmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	_ = settingsClientCmd.MarkFlagRequired("client-id")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGatewayCmd)
	settingsCmd.AddCommand(settingsClientCmd)
	settingsCmd.AddCommand(settingsBaseURLCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config: %s\n", settings.ConfigPath)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Base URL: %s\n", settings.Server.BaseURL)
	cmd.Printf("  Listen:   %s\n", settings.Server.ListenAddr)
	cmd.Printf("  Webhooks: %s\n", settings.Webhook.BaseURL)
	cmd.Println()

	cmd.Println("[Gateway]")
	cmd.Printf("  Mode: %s\n", settings.Gateway)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	cmd.Println()

	for _, p := range domain.AllProviders() {
		cfg := settings.Providers[p]
		cmd.Printf("[%s]\n", p.DisplayName())
		cmd.Printf("  Client ID: %s\n", cfg.ClientID)
		if cfg.ClientSecret != "" {
			cmd.Printf("  Client secret: %s\n", maskSecret(cfg.ClientSecret))
		} else {
			cmd.Printf("  Client secret: (not set)\n")
		}
		cmd.Printf("  Scopes: %s\n", strings.Join(cfg.Scopes, " "))
		cmd.Printf("  Redirect URI: %s\n", cfg.RedirectURI)
		cmd.Println()
	}
	return nil
}

func runSettingsGateway(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	if err := settingsService.SetGatewayMode(domain.GatewayMode(args[0])); err != nil {
		return err
	}
	cmd.Printf("Gateway mode set to %s.\n", args[0])
	return nil
}

func runSettingsClient(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	provider, err := parseProvider(args[0])
	if err != nil {
		return err
	}

	secret := clientSecret
	if secret == "" {
		cmd.Print("Client secret (leave empty to keep current): ")
		secret = readPassword()
		cmd.Println()
	}

	if err := settingsService.SetProviderClient(provider, clientID, secret); err != nil {
		return err
	}
	cmd.Printf("Saved OAuth application for %s.\n", provider.DisplayName())
	return nil
}

func runSettingsBaseURL(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}
	if err := settingsService.SetBaseURL(args[0]); err != nil {
		return err
	}
	cmd.Printf("Base URL set to %s.\n", strings.TrimRight(args[0], "/"))
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if isInteractive() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
