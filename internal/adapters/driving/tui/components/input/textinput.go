// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/revlink/internal/adapters/driving/tui/styles"
)

// Prompt wraps a bubbles textinput with a label.
type Prompt struct {
	textinput textinput.Model
	label     string
	styles    *styles.Styles
}

// NewPrompt creates a focused prompt.
func NewPrompt(s *styles.Styles, label, placeholder string) *Prompt {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &Prompt{
		textinput: ti,
		label:     label,
		styles:    s,
	}
}

// Init starts the cursor blinking.
func (p *Prompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the prompt.
func (p *Prompt) View() string {
	label := p.styles.Title.Render(p.label + " ")
	field := p.styles.Input.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (p *Prompt) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value.
func (p *Prompt) SetValue(value string) {
	p.textinput.SetValue(value)
}

// Reset clears the input.
func (p *Prompt) Reset() {
	p.textinput.Reset()
}
