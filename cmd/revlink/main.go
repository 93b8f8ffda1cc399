// Command revlink connects code hosts over OAuth and manages the
// repository webhooks that deliver pull request events.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/revlink/internal/adapters/driven/presenter"
	"github.com/custodia-labs/revlink/internal/adapters/driving/cli"
	"github.com/custodia-labs/revlink/internal/app"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Authorization prompts go to stderr so stdout stays clean for the
	// MCP stdio transport.
	a, err := app.New(app.Options{Presenter: presenter.New(os.Stderr)})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		OAuth:      a.OAuth,
		Webhooks:   a.Webhooks,
		Deliveries: a.Deliveries,
		Settings:   a.Settings,
		Watch:      a.Watch,
	})
	return cli.Execute(context.Background())
}
