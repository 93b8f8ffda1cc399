package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal dashboard.

The dashboard lists provider connections, repository webhooks and the
deliveries recorded for each webhook.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Connect / Disconnect
  n        - New webhook
  t, s, d  - Test, simulate or delete the selected webhook
  p        - Mark the selected delivery processed
  Esc      - Back
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in TUI: %v", r)
		}
	}()

	if !isInteractive() {
		return errors.New("the TUI needs an interactive terminal")
	}

	app, err := tui.NewApp(&tui.Ports{
		OAuth:      oauthService,
		Webhooks:   webhookService,
		Deliveries: deliveryService,
		Settings:   settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
