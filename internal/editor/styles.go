package editor

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorText    = lipgloss.Color("#F8FAFC")
	colorBgSel   = lipgloss.Color("#3B0764")

	titleStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(24)

	optionStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorMuted)

	focusedOptionStyle = optionStyle.
				BorderForeground(colorPrimary).
				Background(colorBgSel)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	focusedButtonStyle = buttonStyle.BorderForeground(colorPrimary).Bold(true)

	hintStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)
