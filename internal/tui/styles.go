package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title      lipgloss.Style
	Subtle     lipgloss.Style
	Label      lipgloss.Style
	LabelFocus lipgloss.Style
	Selected   lipgloss.Style
	Tech       lipgloss.Style
	Main       lipgloss.Style
	Error      lipgloss.Style
	Status     lipgloss.Style
	Help       lipgloss.Style
	Box        lipgloss.Style
}

func defaultStyles() styles {
	blue := lipgloss.Color("39")
	gray := lipgloss.Color("241")
	red := lipgloss.Color("196")
	green := lipgloss.Color("42")

	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(blue),

		Subtle: lipgloss.NewStyle().
			Foreground(gray),

		Label: lipgloss.NewStyle().
			Foreground(gray),

		LabelFocus: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),

		Tech: lipgloss.NewStyle().
			Foreground(blue),

		Main: lipgloss.NewStyle().
			Foreground(green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(red),

		Status: lipgloss.NewStyle().
			Foreground(green),

		Help: lipgloss.NewStyle().
			Foreground(gray),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray).
			Padding(1, 2),
	}
}
