package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	command lipgloss.Style
	header  lipgloss.Style
	index   lipgloss.Style
	name    lipgloss.Style
	kind    lipgloss.Style
	miss    lipgloss.Style
}

func newStyles() *styles {
	return &styles{
		command: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true),
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true),
		index: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")),
		name: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true),
		kind: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")),
		miss: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")),
	}
}
