package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

var webhookCmd = &cobra.Command{
	Use:     "webhook",
	Aliases: []string{"webhooks"},
	Short:   "Manage repository webhooks",
	Long: `Create, test and remove the webhook registered for each repository.

A repository has at most one webhook. Creating one requires an active
connection to its provider.`,
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List webhooks",
	RunE:  runWebhookList,
}

var webhookCreateCmd = &cobra.Command{
	Use:   "create <provider> <repository-id> <owner/name>",
	Short: "Register a webhook for a repository",
	Example: `  revlink webhook create github 42 acme/web
  revlink webhook create bitbucket 43 acme/api`,
	Args: cobra.ExactArgs(3),
	RunE: runWebhookCreate,
}

var webhookDeleteCmd = &cobra.Command{
	Use:   "delete <webhook-id>",
	Short: "Remove a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookDelete,
}

var webhookTestCmd = &cobra.Command{
	Use:   "test <webhook-id>",
	Short: "Ask the provider for a test delivery",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookTest,
}

var webhookDeliveriesCmd = &cobra.Command{
	Use:   "deliveries <webhook-id>",
	Short: "Show deliveries recorded for a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookDeliveries,
}

var webhookSimulateCmd = &cobra.Command{
	Use:   "simulate <repository-id> [event]",
	Short: "Record a synthetic pull request event",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runWebhookSimulate,
}

var webhookInfoCmd = &cobra.Command{
	Use:   "info <provider>",
	Short: "Show the endpoint and events a provider delivers to",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookInfo,
}

var deliveriesShowPayload bool

func init() {
	webhookDeliveriesCmd.Flags().BoolVar(&deliveriesShowPayload, "payload", false, "Print each payload")

	webhookCmd.AddCommand(webhookListCmd)
	webhookCmd.AddCommand(webhookCreateCmd)
	webhookCmd.AddCommand(webhookDeleteCmd)
	webhookCmd.AddCommand(webhookTestCmd)
	webhookCmd.AddCommand(webhookDeliveriesCmd)
	webhookCmd.AddCommand(webhookSimulateCmd)
	webhookCmd.AddCommand(webhookInfoCmd)
	rootCmd.AddCommand(webhookCmd)
}

func runWebhookList(cmd *cobra.Command, _ []string) error {
	if webhookService == nil {
		return errNotConfigured
	}
	webhooks, err := webhookService.ListAll(cmd.Context())
	if err != nil {
		return err
	}
	if len(webhooks) == 0 {
		cmd.Println("No webhooks configured.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tREPOSITORY\tSTATUS\tREPO ACTIVE\tLAST TRIGGERED")
	for _, h := range webhooks {
		last := "never"
		if h.LastTriggeredAt != nil {
			last = h.LastTriggeredAt.Local().Format(time.DateTime)
		}
		active := "no"
		if webhookService.HasActiveWebhook(cmd.Context(), h.RepositoryID) {
			active = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s (%d)\t%s\t%s\t%s\n",
			h.ID, h.Provider, h.RepositoryName, h.RepositoryID, h.Status, active, last)
	}
	return w.Flush()
}

func runWebhookCreate(cmd *cobra.Command, args []string) error {
	if webhookService == nil {
		return errNotConfigured
	}
	provider, err := parseProvider(args[0])
	if err != nil {
		return err
	}
	repoID, err := parseRepositoryID(args[1])
	if err != nil {
		return err
	}

	hook, err := webhookService.Create(cmd.Context(), repoID, args[2], provider)
	if err != nil {
		return err
	}
	cmd.Printf("Created webhook %s\n", hook.ID)
	cmd.Printf("  URL:    %s\n", hook.URL)
	cmd.Printf("  Events: %s\n", strings.Join(hook.Events, ", "))
	cmd.Printf("  Secret: %s\n", maskSecret(hook.Secret))
	return nil
}

func runWebhookDelete(cmd *cobra.Command, args []string) error {
	if webhookService == nil {
		return errNotConfigured
	}
	if err := webhookService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted webhook %s\n", args[0])
	return nil
}

func runWebhookTest(cmd *cobra.Command, args []string) error {
	if webhookService == nil {
		return errNotConfigured
	}
	if err := webhookService.Test(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Test delivery requested for %s\n", args[0])
	return nil
}

func runWebhookDeliveries(cmd *cobra.Command, args []string) error {
	if deliveryService == nil {
		return errNotConfigured
	}
	events, err := deliveryService.DeliveriesFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(events) == 0 {
		cmd.Println("No deliveries recorded.")
		return nil
	}

	for _, e := range events {
		state := "pending"
		if e.Processed {
			state = "processed"
		}
		cmd.Printf("%s  %s  %-24s %s\n", e.Timestamp.Local().Format(time.DateTime), e.ID, e.Event, state)
		if deliveriesShowPayload && len(e.Payload) > 0 {
			pretty, err := json.MarshalIndent(e.Payload, "    ", "  ")
			if err != nil {
				pretty = e.Payload
			}
			cmd.Printf("    %s\n", pretty)
		}
	}
	return nil
}

func runWebhookSimulate(cmd *cobra.Command, args []string) error {
	if deliveryService == nil {
		return errNotConfigured
	}
	repoID, err := parseRepositoryID(args[0])
	if err != nil {
		return err
	}
	var event string
	if len(args) > 1 {
		event = args[1]
	}

	recorded, err := deliveryService.SimulateEvent(cmd.Context(), repoID, event)
	if err != nil {
		return err
	}
	cmd.Printf("Recorded %s delivery %s\n", recorded.Event, recorded.ID)
	return nil
}

func runWebhookInfo(cmd *cobra.Command, args []string) error {
	if webhookService == nil {
		return errNotConfigured
	}
	provider, err := parseProvider(args[0])
	if err != nil {
		return err
	}
	info, err := webhookService.Info(provider)
	if err != nil {
		return err
	}
	cmd.Printf("%s webhooks\n", provider.DisplayName())
	cmd.Printf("  Endpoint:     %s\n", info.Endpoint)
	cmd.Printf("  Content type: %s\n", info.ContentType)
	cmd.Printf("  Events:       %s\n", strings.Join(info.Events, ", "))
	return nil
}

func parseRepositoryID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: repository id %q", domain.ErrInvalidInput, s)
	}
	return id, nil
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
