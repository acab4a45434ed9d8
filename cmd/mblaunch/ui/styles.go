// Package ui provides the interactive setup wizard for the launcher.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the wizard's visual components.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Help    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Box     lipgloss.Style
}

// DefaultStyles returns the wizard theme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2196F3")).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Bold(true),
		Help: lipgloss.NewStyle().
			Faint(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e53935")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BC34A")).
			Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2a3850")).
			Padding(1, 2),
	}
}
