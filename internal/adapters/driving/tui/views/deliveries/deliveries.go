// Package deliveries lists the deliveries recorded for one webhook.
package deliveries

import (
	"context"
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

// View shows the deliveries of the selected webhook.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	deliveries driving.DeliveryService
	list       *list.List
	webhook    domain.WebhookConfig
	events     []domain.WebhookEvent
}

// NewView creates a deliveries view.
func NewView(s *styles.Styles, deliveries driving.DeliveryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		deliveries: deliveries,
		list:       list.New(s, "No deliveries recorded."),
	}
}

// SetWebhook switches to webhook and loads its deliveries.
func (v *View) SetWebhook(ctx context.Context, webhook domain.WebhookConfig) tea.Cmd {
	v.webhook = webhook
	v.events = nil
	v.list.SetRows(nil)
	return v.Load(ctx)
}

// Load fetches the deliveries.
func (v *View) Load(ctx context.Context) tea.Cmd {
	id := v.webhook.ID
	return func() tea.Msg {
		events, err := v.deliveries.DeliveriesFor(ctx, id)
		return messages.DeliveriesLoaded{WebhookID: id, Deliveries: events, Err: err}
	}
}

// Update handles messages for the deliveries view.
func (v *View) Update(ctx context.Context, msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.DeliveriesLoaded:
		if msg.Err == nil && msg.WebhookID == v.webhook.ID {
			v.events = msg.Deliveries
			v.list.SetRows(v.rows())
		}
		return v, nil

	case messages.DeliveryProcessed:
		return v, v.Load(ctx)

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Process):
			return v, v.markProcessed(ctx)
		case keymap.Matches(msg.String(), v.keymap.Refresh):
			return v, v.Load(ctx)
		}
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

func (v *View) markProcessed(ctx context.Context) tea.Cmd {
	idx := v.list.Selected()
	if idx < 0 || idx >= len(v.events) {
		return nil
	}
	webhookID, eventID := v.webhook.ID, v.events[idx].ID
	return func() tea.Msg {
		return messages.DeliveryProcessed{EventID: eventID, Err: v.deliveries.MarkProcessed(ctx, webhookID, eventID)}
	}
}

func (v *View) rows() []string {
	rows := make([]string, len(v.events))
	for i, e := range v.events {
		state := v.styles.Warning.Render("pending")
		if e.Processed {
			state = v.styles.Success.Render("processed")
		}
		rows[i] = fmt.Sprintf("%s  %-28s %s", e.Timestamp.Local().Format(time.DateTime), e.Event, state)
	}
	return rows
}

// View renders the deliveries.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Deliveries"))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(v.webhook.RepositoryName))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	return b.String()
}

// Events returns the loaded deliveries.
func (v *View) Events() []domain.WebhookEvent {
	return v.events
}
