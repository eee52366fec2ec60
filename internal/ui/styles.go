package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorF1Red   = lipgloss.Color("#FF1801")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorGray    = lipgloss.Color("#999999")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorBorder  = lipgloss.Color("#E5E7EB")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Italic(true).
			Foreground(ColorWhite)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorF1Red)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorF1Red).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorF1Red)

	SearchPromptStyle = lipgloss.NewStyle().
				Foreground(ColorF1Red).
				Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	BroadcastNameStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite)

	AcronymStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorDimGray)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorF1Red).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	ModalNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true)
)

// TeamStyle colours text with a team colour such as "#3671C6".
func TeamStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// TeamBadgeStyle renders text on a team-coloured background.
func TeamBadgeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(ColorWhite).
		Bold(true).
		Padding(0, 1)
}
