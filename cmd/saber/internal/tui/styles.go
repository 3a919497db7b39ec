package tui

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the TUI.
var (
	userPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	userBlockStyle  = lipgloss.NewStyle().PaddingLeft(1)

	answerPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	answerBlockStyle  = lipgloss.NewStyle().PaddingLeft(1)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	errorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("1"))
)
