// Package presenter shows authorization URLs to a terminal user.
package presenter

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driven"
	"github.com/custodia-labs/revlink/internal/logger"
)

// Ensure Presenter implements the interface.
var _ driven.AuthPresenter = (*Presenter)(nil)

// Presenter opens popup authorizations in the system browser and prints
// redirect authorizations for the user to follow.
type Presenter struct {
	out  io.Writer
	open func(url string) error
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithOpener replaces the browser launcher.
func WithOpener(open func(url string) error) Option {
	return func(p *Presenter) {
		p.open = open
	}
}

// New creates a presenter writing instructions to out.
func New(out io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:  out,
		open: OpenBrowser,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Present shows req.URL according to req.Mode. A browser that fails to
// launch falls back to printing the URL.
func (p *Presenter) Present(_ context.Context, req domain.AuthorizationRequest) error {
	switch req.Mode {
	case domain.PresentationPopup:
		if err := p.open(req.URL); err != nil {
			logger.Debug("opening browser: %v", err)
			return p.print(req, "Could not open a browser. Visit this URL to authorize")
		}
		_, err := fmt.Fprintf(p.out, "Opened %s authorization in your browser.\n", req.Provider.DisplayName())
		return err
	case domain.PresentationRedirect:
		return p.print(req, "Continue to")
	default:
		return fmt.Errorf("%w: presentation mode %q", domain.ErrInvalidInput, req.Mode)
	}
}

func (p *Presenter) print(req domain.AuthorizationRequest, lead string) error {
	_, err := fmt.Fprintf(p.out, "%s %s:\n\n  %s\n\n", lead, req.Provider.DisplayName(), req.URL)
	return err
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
