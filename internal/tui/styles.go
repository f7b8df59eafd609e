package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	stepDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	stepActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	stepInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	messageStyle = lipgloss.NewStyle().
			Padding(1, 0)

	removedStyle = messageStyle.
			Foreground(lipgloss.Color("203"))

	notifiedStyle = messageStyle.
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)
