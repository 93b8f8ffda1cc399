// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool // If true, selecting this item quits the app
}

// View represents the main menu view.
type View struct {
	styles *styles.Styles
	items  []Item
	list   *list.List
}

// NewView creates a new menu view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	items := []Item{
		{Label: "Connections", View: messages.ViewConnections},
		{Label: "Webhooks", View: messages.ViewWebhooks},
		{Label: "Quit", Quit: true},
	}
	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = item.Label
	}
	l := list.New(s, "")
	l.SetRows(rows)

	return &View{
		styles: s,
		items:  items,
		list:   l,
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.String() {
	case "enter":
		item := v.items[v.list.Selected()]
		if item.Quit {
			return v, tea.Quit
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: item.View}
		}
	case "q":
		return v, tea.Quit
	}

	v.list, _ = v.list.Update(keyMsg)
	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("revlink"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Provider connections and pull request webhooks"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	return b.String()
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.list.Selected()
}
