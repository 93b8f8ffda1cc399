// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Toggle connects or disconnects the selected provider.
	Toggle key.Binding

	// Refresh reloads the current view.
	Refresh key.Binding

	// New opens the create webhook form.
	New key.Binding

	// Delete removes the selected webhook.
	Delete key.Binding

	// Test requests a test delivery for the selected webhook.
	Test key.Binding

	// Simulate records a synthetic event for the selected webhook.
	Simulate key.Binding

	// Process marks the selected delivery processed.
	Process key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "connect/disconnect"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Test: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "test"),
		),
		Simulate: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "simulate"),
		),
		Process: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "mark processed"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// ConnectionsHelp returns keybindings for the connections view.
func (k *KeyMap) ConnectionsHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Refresh, k.Back}
}

// WebhooksHelp returns keybindings for the webhooks view.
func (k *KeyMap) WebhooksHelp() []key.Binding {
	return []key.Binding{k.New, k.Test, k.Simulate, k.Delete, k.Select, k.Back}
}

// DeliveriesHelp returns keybindings for the deliveries view.
func (k *KeyMap) DeliveriesHelp() []key.Binding {
	return []key.Binding{k.Process, k.Refresh, k.Back}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
