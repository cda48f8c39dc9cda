package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorMuted   = lipgloss.Color("#a6adc8")
	colorSurface = lipgloss.Color("#45475a")
	colorAccent  = lipgloss.Color("#74c7ec")
	colorGreen   = lipgloss.Color("#a6e3a1")
	colorRed     = lipgloss.Color("#f38ba8")
	colorPeach   = lipgloss.Color("#fab387")

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Foreground(colorText).
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	doneStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	activeStyle = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	deniedStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	spotStyle = lipgloss.NewStyle().
			Width(12).
			Align(lipgloss.Center).
			BorderStyle(lipgloss.NormalBorder())
	spotFreeStyle  = spotStyle.BorderForeground(colorGreen)
	spotTakenStyle = spotStyle.BorderForeground(colorRed)
)
