// Package webhooks lists repository webhooks and acts on them.
package webhooks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/revlink/internal/core/domain"
	"github.com/custodia-labs/revlink/internal/core/ports/driving"
)

// View lists webhooks. Pressing n opens a one-line form taking
// "<provider> <repository-id> <owner/name>".
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	webhooks   driving.WebhookService
	deliveries driving.DeliveryService
	list       *list.List
	form       *input.Prompt
	items      []domain.WebhookConfig
}

// NewView creates a webhooks view.
func NewView(s *styles.Styles, webhooks driving.WebhookService, deliveries driving.DeliveryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		webhooks:   webhooks,
		deliveries: deliveries,
		list:       list.New(s, "No webhooks. Press n to create one."),
	}
}

// Load fetches the webhook list.
func (v *View) Load(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		items, err := v.webhooks.ListAll(ctx)
		return messages.WebhooksLoaded{Webhooks: items, Err: err}
	}
}

// Editing reports whether the create form has focus.
func (v *View) Editing() bool {
	return v.form != nil
}

// Update handles messages for the webhooks view.
func (v *View) Update(ctx context.Context, msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.WebhooksLoaded:
		if msg.Err == nil {
			v.items = msg.Webhooks
			v.list.SetRows(v.rows())
		}
		return v, nil

	case messages.WebhookChanged:
		return v, v.Load(ctx)

	case tea.KeyMsg:
		if v.form != nil {
			return v.updateForm(ctx, msg)
		}
		return v.updateList(ctx, msg)
	}
	return v, nil
}

func (v *View) updateForm(ctx context.Context, msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only submit and cancel are special
	case tea.KeyEsc:
		v.form = nil
		return v, nil
	case tea.KeyEnter:
		value := v.form.Value()
		v.form = nil
		return v, v.create(ctx, value)
	default:
		var cmd tea.Cmd
		v.form, cmd = v.form.Update(msg)
		return v, cmd
	}
}

func (v *View) updateList(ctx context.Context, msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	if keymap.Matches(key, v.keymap.New) {
		v.form = input.NewPrompt(v.styles, "New webhook:", "github 42 acme/web")
		return v, v.form.Init()
	}
	if keymap.Matches(key, v.keymap.Refresh) {
		return v, v.Load(ctx)
	}

	hook, ok := v.selected()
	if !ok {
		v.list, _ = v.list.Update(msg)
		return v, nil
	}

	switch {
	case keymap.Matches(key, v.keymap.Select):
		return v, func() tea.Msg { return messages.WebhookSelected{Webhook: hook} }
	case keymap.Matches(key, v.keymap.Test):
		return v, v.change(func() (string, error) {
			return "Test delivery requested for " + hook.RepositoryName, v.webhooks.Test(ctx, hook.ID)
		})
	case keymap.Matches(key, v.keymap.Simulate):
		return v, v.change(func() (string, error) {
			evt, err := v.deliveries.SimulateEvent(ctx, hook.RepositoryID, "")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Recorded %s for %s", evt.Event, hook.RepositoryName), nil
		})
	case keymap.Matches(key, v.keymap.Delete):
		return v, v.change(func() (string, error) {
			return "Deleted webhook for " + hook.RepositoryName, v.webhooks.Delete(ctx, hook.ID)
		})
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) create(ctx context.Context, value string) tea.Cmd {
	return v.change(func() (string, error) {
		provider, repoID, name, err := ParseForm(value)
		if err != nil {
			return "", err
		}
		hook, err := v.webhooks.Create(ctx, repoID, name, provider)
		if err != nil {
			return "", err
		}
		return "Created webhook for " + hook.RepositoryName, nil
	})
}

func (v *View) change(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		message, err := fn()
		return messages.WebhookChanged{Message: message, Err: err}
	}
}

// ParseForm splits "<provider> <repository-id> <owner/name>".
func ParseForm(value string) (domain.Provider, int64, string, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return "", 0, "", fmt.Errorf("%w: expected <provider> <repository-id> <owner/name>", domain.ErrInvalidInput)
	}
	provider, err := domain.ParseProvider(fields[0])
	if err != nil {
		return "", 0, "", err
	}
	repoID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", 0, "", fmt.Errorf("%w: repository id %q", domain.ErrInvalidInput, fields[1])
	}
	return provider, repoID, fields[2], nil
}

func (v *View) selected() (domain.WebhookConfig, bool) {
	idx := v.list.Selected()
	if idx < 0 || idx >= len(v.items) {
		return domain.WebhookConfig{}, false
	}
	return v.items[idx], true
}

func (v *View) rows() []string {
	rows := make([]string, len(v.items))
	for i, h := range v.items {
		last := "never"
		if h.LastTriggeredAt != nil {
			last = h.LastTriggeredAt.Local().Format(time.DateTime)
		}
		rows[i] = fmt.Sprintf("%-10s %-28s %s  last %s",
			h.Provider.DisplayName(), h.RepositoryName, v.styles.WebhookStatus(h.Status), last)
	}
	return rows
}

// View renders the webhooks.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Webhooks"))
	b.WriteString("\n\n")
	if v.form != nil {
		b.WriteString(v.form.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("enter: create | esc: cancel"))
		return b.String()
	}
	b.WriteString(v.list.View())
	return b.String()
}

// Webhooks returns the loaded webhooks.
func (v *View) Webhooks() []domain.WebhookConfig {
	return v.items
}
