package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F8FAFC")
	colorBgSel   = lipgloss.Color("#3B0764")

	logoStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	sectionStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true).MarginTop(1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	recordingButtonStyle = buttonStyle.BorderForeground(colorError).Foreground(colorError).Bold(true)

	disabledButtonStyle = buttonStyle.Foreground(colorMuted)

	transcriptStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Width(72)

	modelItemStyle = lipgloss.NewStyle().Foreground(colorText)

	selectedModelItemStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorBgSel).Bold(true)

	statusOKStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	statusErrorStyle = lipgloss.NewStyle().Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(colorPrimary)
)
