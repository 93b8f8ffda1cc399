// Package connections lists provider connections and toggles them.
package connections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
)

// View shows the connection state of every provider.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	oauth       driving.OAuthService
	settings    driving.SettingsService
	list        *list.List
	connections []messages.Connection
	pendingURL  string
}

// NewView creates a connections view. settings may be nil, in which case
// connections are simulated.
func NewView(s *styles.Styles, oauth driving.OAuthService, settings driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		oauth:    oauth,
		settings: settings,
		list:     list.New(s, "No providers"),
	}
}

// Load fetches the connection state.
func (v *View) Load(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		conns := make([]messages.Connection, 0, len(domain.AllProviders()))
		for _, p := range domain.AllProviders() {
			info, err := v.oauth.UserInfo(ctx, p)
			if err != nil && !errors.Is(err, domain.ErrNotConnected) {
				return messages.ConnectionsLoaded{Err: err}
			}
			conns = append(conns, messages.Connection{Provider: p, Info: info})
		}
		return messages.ConnectionsLoaded{Connections: conns}
	}
}

// Update handles messages for the connections view.
func (v *View) Update(ctx context.Context, msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ConnectionsLoaded:
		if msg.Err == nil {
			v.connections = msg.Connections
			v.list.SetRows(v.rows())
		}
		return v, nil

	case messages.ConnectionToggled:
		v.pendingURL = ""
		if msg.Request != nil {
			v.pendingURL = msg.Request.URL
		}
		return v, v.Load(ctx)

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Toggle):
			return v, v.toggle(ctx)
		case keymap.Matches(msg.String(), v.keymap.Refresh):
			return v, v.Load(ctx)
		}
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

func (v *View) toggle(ctx context.Context) tea.Cmd {
	idx := v.list.Selected()
	if idx < 0 || idx >= len(v.connections) {
		return nil
	}
	conn := v.connections[idx]

	return func() tea.Msg {
		if conn.Info != nil {
			return messages.ConnectionToggled{Provider: conn.Provider, Err: v.oauth.Disconnect(ctx, conn.Provider)}
		}
		req, err := v.oauth.Connect(ctx, conn.Provider, v.mode())
		return messages.ConnectionToggled{Provider: conn.Provider, Request: req, Err: err}
	}
}

// mode picks the simulated handshake unless live gateways are configured.
func (v *View) mode() domain.PresentationMode {
	if v.settings == nil {
		return domain.PresentationSimulated
	}
	settings, err := v.settings.Get()
	if err != nil || settings.Gateway != domain.GatewayLive {
		return domain.PresentationSimulated
	}
	return domain.PresentationRedirect
}

func (v *View) rows() []string {
	rows := make([]string, len(v.connections))
	for i, c := range v.connections {
		line := fmt.Sprintf("%-10s %s", c.Provider.DisplayName(), v.styles.Connected(c.Info != nil))
		if c.Info != nil {
			if c.Info.Account != "" {
				line += "  " + c.Info.Account
			}
			line += "  expires " + c.Info.TokenExpiresAt.Local().Format(time.DateTime)
		}
		rows[i] = line
	}
	return rows
}

// View renders the connections.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Connections"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	if v.pendingURL != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Authorize in your browser:"))
		b.WriteString("\n")
		b.WriteString(v.pendingURL)
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("The callback completes while 'revlink serve' is running."))
	}
	return b.String()
}

// Connections returns the loaded connection state.
func (v *View) Connections() []messages.Connection {
	return v.connections
}
