// Package cli provides the revlink command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/revlink/internal/core/ports/driving"
	"github.com/custodia-labs/revlink/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	oauthService    driving.OAuthService
	webhookService  driving.WebhookService
	deliveryService driving.DeliveryService
	settingsService driving.SettingsService
	watchConfig     func(ctx context.Context) error
)

// errNotConfigured is returned by commands run without their service.
var errNotConfigured = errors.New("service not configured")

// Services holds the core services commands run against.
type Services struct {
	OAuth      driving.OAuthService
	Webhooks   driving.WebhookService
	Deliveries driving.DeliveryService
	Settings   driving.SettingsService
	// Watch blocks applying config changes until ctx ends. Optional.
	Watch func(ctx context.Context) error
}

// SetServices sets the services used by all commands.
func SetServices(s Services) {
	oauthService = s.OAuth
	webhookService = s.Webhooks
	deliveryService = s.Deliveries
	settingsService = s.Settings
	watchConfig = s.Watch
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "revlink",
	Short: "Connect code hosts and manage pull request webhooks",
	Long: `revlink connects your GitHub, Bitbucket and Jira accounts over OAuth
and registers the repository webhooks that deliver pull request events.

Connections default to a simulated gateway so every flow can be tried
without real OAuth applications. Switch with 'revlink settings gateway live'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}
