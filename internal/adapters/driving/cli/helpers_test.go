package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/revlink/internal/app"
)

// setupServices wires an in-memory application into the commands.
func setupServices(t *testing.T) *app.App {
	t.Helper()
	cfg := memory.NewConfigStore(map[string]any{"storage.backend": "memory"})
	a, err := app.New(app.Options{Config: cfg, Environ: map[string]string{}})
	require.NoError(t, err)

	SetServices(Services{
		OAuth:      a.OAuth,
		Webhooks:   a.Webhooks,
		Deliveries: a.Deliveries,
		Settings:   a.Settings,
	})
	t.Cleanup(func() {
		SetServices(Services{})
		_ = a.Close()
	})
	return a
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so values and the
// changed markers do not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
