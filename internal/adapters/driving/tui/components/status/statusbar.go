// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateInfo    State = "info"
	StateError   State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	hints   []key.Binding
	state   State
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		hints:  km.ShortHelp(),
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Working...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateInfo:
		return s.styles.Success.Render(s.message)
	default:
		return s.styles.Muted.Render("Ready")
	}
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.hints))
	for _, b := range s.hints {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetHints replaces the keybinding hints.
func (s *Bar) SetHints(hints []key.Binding) {
	s.hints = hints
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Info shows a success message.
func (s *Bar) Info(message string) {
	s.state = StateInfo
	s.message = message
}

// Error shows err.
func (s *Bar) Error(err error) {
	s.state = StateError
	s.message = err.Error()
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
