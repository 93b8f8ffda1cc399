package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show provider connections",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if oauthService == nil {
		return errNotConfigured
	}
	ctx := cmd.Context()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tSTATUS\tACCOUNT\tEXPIRES")
	for _, p := range domain.AllProviders() {
		info, err := oauthService.UserInfo(ctx, p)
		switch {
		case errors.Is(err, domain.ErrNotConnected):
			fmt.Fprintf(w, "%s\tnot connected\t-\t-\n", p.DisplayName())
		case err != nil:
			return fmt.Errorf("reading %s connection: %w", p, err)
		default:
			account := info.Account
			if account == "" {
				account = "-"
			}
			fmt.Fprintf(w, "%s\tconnected\t%s\t%s\n", p.DisplayName(), account, info.TokenExpiresAt.Local().Format(time.DateTime))
		}
	}
	return w.Flush()
}
