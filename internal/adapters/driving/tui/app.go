package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/views/connections"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/views/deliveries"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/views/webhooks"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	status *status.Bar

	menuView        *menu.View
	connectionsView *connections.View
	webhooksView    *webhooks.View
	deliveriesView  *deliveries.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:           ports,
		ctx:             context.Background(),
		styles:          s,
		keymap:          km,
		status:          status.NewBar(s, km),
		menuView:        menu.NewView(s),
		connectionsView: connections.NewView(s, ports.OAuth, ports.Settings),
		webhooksView:    webhooks.NewView(s, ports.Webhooks, ports.Deliveries),
		deliveriesView:  deliveries.NewView(s, ports.Deliveries),
		currentView:     messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("revlink")
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.status.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ConnectionsLoaded:
		a.report(msg.Err, "")
		a.connectionsView, cmd = a.connectionsView.Update(a.ctx, msg)
		return a, cmd

	case messages.ConnectionToggled:
		switch {
		case msg.Err != nil:
			a.status.Error(msg.Err)
		case msg.Request != nil:
			a.status.Info("Authorization started for " + msg.Provider.DisplayName())
		default:
			a.status.Info("Updated " + msg.Provider.DisplayName())
		}
		a.connectionsView, cmd = a.connectionsView.Update(a.ctx, msg)
		return a, cmd

	case messages.WebhooksLoaded:
		a.report(msg.Err, "")
		a.webhooksView, cmd = a.webhooksView.Update(a.ctx, msg)
		return a, cmd

	case messages.WebhookChanged:
		a.report(msg.Err, msg.Message)
		a.webhooksView, cmd = a.webhooksView.Update(a.ctx, msg)
		return a, cmd

	case messages.WebhookSelected:
		a.currentView = messages.ViewDeliveries
		a.status.Clear()
		a.status.SetHints(a.keymap.DeliveriesHelp())
		return a, a.deliveriesView.SetWebhook(a.ctx, msg.Webhook)

	case messages.DeliveriesLoaded:
		a.report(msg.Err, "")
		a.deliveriesView, cmd = a.deliveriesView.Update(a.ctx, msg)
		return a, cmd

	case messages.DeliveryProcessed:
		a.report(msg.Err, "Marked "+msg.EventID+" processed")
		a.deliveriesView, cmd = a.deliveriesView.Update(a.ctx, msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// The create form takes every key, including q and esc.
	if a.currentView == messages.ViewWebhooks && a.webhooksView.Editing() {
		a.webhooksView, cmd = a.webhooksView.Update(a.ctx, msg)
		return a, cmd
	}

	if a.currentView != messages.ViewMenu {
		switch {
		case keymap.Matches(msg.String(), a.keymap.Back):
			if a.currentView == messages.ViewDeliveries {
				return a, a.switchTo(messages.ViewWebhooks)
			}
			return a, a.switchTo(messages.ViewMenu)
		case msg.String() == "q":
			return a, tea.Quit
		}
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewConnections:
		a.connectionsView, cmd = a.connectionsView.Update(a.ctx, msg)
	case messages.ViewWebhooks:
		a.webhooksView, cmd = a.webhooksView.Update(a.ctx, msg)
	case messages.ViewDeliveries:
		a.deliveriesView, cmd = a.deliveriesView.Update(a.ctx, msg)
	}
	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.status.Clear()

	switch view {
	case messages.ViewConnections:
		a.status.SetHints(a.keymap.ConnectionsHelp())
		return a.connectionsView.Load(a.ctx)
	case messages.ViewWebhooks:
		a.status.SetHints(a.keymap.WebhooksHelp())
		return a.webhooksView.Load(a.ctx)
	case messages.ViewDeliveries:
		a.status.SetHints(a.keymap.DeliveriesHelp())
		return a.deliveriesView.Load(a.ctx)
	default:
		a.status.SetHints(a.keymap.ShortHelp())
		return nil
	}
}

func (a *App) report(err error, info string) {
	switch {
	case err != nil:
		a.status.Error(err)
	case info != "":
		a.status.Info(info)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewConnections:
		body = a.connectionsView.View()
	case messages.ViewWebhooks:
		body = a.webhooksView.View()
	case messages.ViewDeliveries:
		body = a.deliveriesView.View()
	default:
		body = a.menuView.View()
	}

	padding := a.height - strings.Count(body, "\n") - 2
	if padding < 1 {
		padding = 1
	}
	return body + strings.Repeat("\n", padding) + a.status.View()
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Status returns the status bar.
func (a *App) Status() *status.Bar {
	return a.status
}
