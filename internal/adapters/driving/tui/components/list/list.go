// Package list provides a navigable list component for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/styles"
)

// List renders pre-formatted rows with a cursor and scrolls to keep the
// cursor visible.
type List struct {
	rows     []string
	selected int
	empty    string
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	height   int
}

// New creates a list that shows empty when it has no rows.
func New(s *styles.Styles, empty string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &List{
		empty:  empty,
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		height: 10,
	}
}

// Update handles list navigation keys.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keymap.Matches(msg.String(), l.keymap.Up):
			l.MoveUp()
		case keymap.Matches(msg.String(), l.keymap.Down):
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible rows.
func (l *List) View() string {
	if len(l.rows) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	start, end := l.window()
	var b strings.Builder
	for i := start; i < end; i++ {
		if i == l.selected {
			b.WriteString(l.styles.Selected.Render("> " + l.rows[i]))
		} else {
			b.WriteString("  " + l.styles.Normal.Render(l.rows[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (l *List) window() (int, int) {
	visible := max(l.height, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	return start, min(start+visible, len(l.rows))
}

// SetRows replaces the rows, keeping the cursor in range.
func (l *List) SetRows(rows []string) {
	l.rows = rows
	if l.selected >= len(rows) {
		l.selected = max(len(rows)-1, 0)
	}
}

// MoveUp moves the cursor up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the cursor down.
func (l *List) MoveDown() {
	if l.selected < len(l.rows)-1 {
		l.selected++
	}
}

// Selected returns the cursor index, or -1 when the list is empty.
func (l *List) Selected() int {
	if len(l.rows) == 0 {
		return -1
	}
	return l.selected
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.rows)
}

// SetHeight sets how many rows are visible.
func (l *List) SetHeight(height int) {
	l.height = height
}
