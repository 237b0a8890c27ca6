package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/alarm-clock/internal/config"
)

// Styles holds the rendered look of every view.
type Styles struct {
	Title    lipgloss.Style
	Clock    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Alert    lipgloss.Style
	Notice   lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Panel    lipgloss.Style
}

// NewStyles builds styles from the configured theme.
func NewStyles(theme config.Theme) Styles {
	accent := lipgloss.Color(theme.Accent)
	muted := lipgloss.Color(theme.Muted)
	alert := lipgloss.Color(theme.Alert)

	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(accent).MarginLeft(2),
		Clock: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Clock)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 3).
			MarginLeft(2),
		Row:      lipgloss.NewStyle().PaddingLeft(4),
		Selected: lipgloss.NewStyle().PaddingLeft(2).Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Alert:    lipgloss.NewStyle().Bold(true).Foreground(alert).MarginLeft(2),
		Notice:   lipgloss.NewStyle().Foreground(accent).MarginLeft(2),
		Label:    lipgloss.NewStyle().Foreground(muted),
		Focused:  lipgloss.NewStyle().Foreground(accent),
		Panel:    lipgloss.NewStyle().MarginLeft(2),
	}
}
