package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#e6edf3")
	colorTextDim = lipgloss.Color("#8b949e")
	colorBlue    = lipgloss.Color("#58a6ff")
	colorGreen   = lipgloss.Color("#3fb950")
	colorRed     = lipgloss.Color("#f85149")
	colorTrack   = lipgloss.Color("#30363d")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			MarginBottom(1)

	fillStyle      = lipgloss.NewStyle().Foreground(colorBlue)
	fillMutedStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	trackStyle     = lipgloss.NewStyle().Foreground(colorTrack)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(0, 2)

	mutedStatusStyle   = lipgloss.NewStyle().Foreground(colorRed).PaddingLeft(2)
	unmutedStatusStyle = lipgloss.NewStyle().Foreground(colorGreen).PaddingLeft(2)

	syncStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true)

	panelStyle = lipgloss.NewStyle().Padding(1, 2)
)
