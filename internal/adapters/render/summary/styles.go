package summary

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	category   lipgloss.Style
	detail     lipgloss.Style
	empty      lipgloss.Style
	section    lipgloss.Style
	money      lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		category:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Width(14),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:      lipgloss.NewStyle().Faint(true),
		section:    lipgloss.NewStyle().MarginTop(1),
		money:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
