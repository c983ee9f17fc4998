package tui

import "github.com/charmbracelet/lipgloss"

var (
	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	messageOnlyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	retryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			PaddingLeft(2)
)
