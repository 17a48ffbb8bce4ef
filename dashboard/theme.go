package dashboard

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Focused  lipgloss.Style
	KPI      lipgloss.Style
	KPILabel lipgloss.Style
	Chart    lipgloss.Style
	Status   lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		Focused: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		KPI:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		KPILabel: lipgloss.NewStyle().Faint(true),
		Chart:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
