// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/revlink/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Input     lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// WebhookStatus renders a webhook status in its colour.
func (s *Styles) WebhookStatus(status domain.WebhookStatus) string {
	switch status {
	case domain.WebhookActive:
		return s.Success.Render(string(status))
	case domain.WebhookError:
		return s.Error.Render(string(status))
	default:
		return s.Warning.Render(string(status))
	}
}

// Connected renders a connection flag.
func (s *Styles) Connected(connected bool) string {
	if connected {
		return s.Success.Render("● connected")
	}
	return s.Muted.Render("○ not connected")
}
