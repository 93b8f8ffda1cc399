package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/revlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/revlink/internal/app"
	"github.com/custodia-labs/revlink/internal/core/domain"
)

func newTestPorts(t *testing.T) (*Ports, *app.App) {
	t.Helper()
	cfg := memory.NewConfigStore(map[string]any{"storage.backend": "memory"})
	a, err := app.New(app.Options{Config: cfg, Environ: map[string]string{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return &Ports{OAuth: a.OAuth, Webhooks: a.Webhooks, Deliveries: a.Deliveries, Settings: a.Settings}, a
}

// drive feeds msg to the app and keeps feeding the resulting commands'
// messages until none remain.
func drive(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	for i := 0; msg != nil && i < 10; i++ {
		_, cmd := a.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
	}
}

// typeText sends each rune without running the cursor blink commands.
func typeText(a *App, text string) {
	for _, r := range text {
		a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewApp_MissingPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingOAuthService)
}

func TestApp_InitialState(t *testing.T) {
	ports, _ := newTestPorts(t)
	a, err := NewApp(ports)
	require.NoError(t, err)

	assert.Equal(t, messages.ViewMenu, a.CurrentView())
	assert.NotNil(t, a.Init())
	assert.Equal(t, "Initialising...", a.View())

	drive(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, a.View(), "revlink")
}

func TestApp_ConnectionsToggle(t *testing.T) {
	ports, services := newTestPorts(t)
	a, err := NewApp(ports)
	require.NoError(t, err)
	a.WithContext(context.Background())
	drive(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})

	drive(t, a, key("enter"))
	assert.Equal(t, messages.ViewConnections, a.CurrentView())
	assert.Contains(t, a.View(), "GitHub")

	drive(t, a, key("enter"))
	assert.True(t, services.OAuth.IsConnected(context.Background(), domain.ProviderGitHub))
	assert.Equal(t, status.StateInfo, a.Status().State())

	drive(t, a, key("enter"))
	assert.False(t, services.OAuth.IsConnected(context.Background(), domain.ProviderGitHub))

	drive(t, a, key("esc"))
	assert.Equal(t, messages.ViewMenu, a.CurrentView())
}

func TestApp_WebhookFlow(t *testing.T) {
	ports, services := newTestPorts(t)
	ctx := context.Background()
	require.NoError(t, services.OAuth.SimulateConnect(ctx, domain.ProviderGitHub))

	a, err := NewApp(ports)
	require.NoError(t, err)
	drive(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})

	drive(t, a, messages.ViewChanged{View: messages.ViewWebhooks})
	assert.Equal(t, messages.ViewWebhooks, a.CurrentView())

	drive(t, a, key("n"))
	typeText(a, "github 42 acme/web q")
	// q is typed into the form rather than quitting.
	assert.Equal(t, messages.ViewWebhooks, a.CurrentView())
	a.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	a.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	drive(t, a, key("enter"))

	hook, err := services.Webhooks.FindByRepository(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, hook)
	assert.Equal(t, "acme/web", hook.RepositoryName)

	drive(t, a, key("s"))
	events, err := services.Deliveries.DeliveriesFor(ctx, hook.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	drive(t, a, key("enter"))
	assert.Equal(t, messages.ViewDeliveries, a.CurrentView())
	assert.Contains(t, a.View(), "pull_request")

	drive(t, a, key("p"))
	events, err = services.Deliveries.DeliveriesFor(ctx, hook.ID)
	require.NoError(t, err)
	assert.True(t, events[0].Processed)

	drive(t, a, key("esc"))
	assert.Equal(t, messages.ViewWebhooks, a.CurrentView())
}

func TestApp_WebhookErrorShownInStatus(t *testing.T) {
	ports, _ := newTestPorts(t)
	a, err := NewApp(ports)
	require.NoError(t, err)

	drive(t, a, messages.ViewChanged{View: messages.ViewWebhooks})
	drive(t, a, key("n"))
	typeText(a, "github 7 acme/api")
	drive(t, a, key("enter"))

	assert.Equal(t, status.StateError, a.Status().State())
	assert.Contains(t, a.Status().Message(), "connect to github first")
}

func TestApp_QuitKeys(t *testing.T) {
	ports, _ := newTestPorts(t)
	a, err := NewApp(ports)
	require.NoError(t, err)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	drive(t, a, messages.ViewChanged{View: messages.ViewConnections})
	_, cmd = a.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
