package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed     = lipgloss.Color("#ff5555")
	colorGreen   = lipgloss.Color("#50fa7b")
	colorYellow  = lipgloss.Color("#f1fa8c")
	colorBlue    = lipgloss.Color("#8be9fd")
	colorPurple  = lipgloss.Color("#bd93f9")
	colorDim     = lipgloss.Color("#6272a4")
	colorBgLight = lipgloss.Color("#343746")
	colorFg      = lipgloss.Color("#f8f8f2")
	colorOrange  = lipgloss.Color("#ffb86c")
	colorBorder  = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// File list styles
	fileListStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	fileItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	fileItemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorBorder).
				Bold(true)

	// Findings pane styles
	findingsPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	findingSelectedStyle = lipgloss.NewStyle().
				Background(colorBgLight).
				Bold(true)

	severityCriticalStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	severityHighStyle = lipgloss.NewStyle().
				Foreground(colorOrange).
				Bold(true)

	severityMediumStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	severityLowStyle = lipgloss.NewStyle().
				Foreground(colorBlue)

	consensusStyle = lipgloss.NewStyle().
			Foreground(colorPurple)

	agentsStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(colorFg)

	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)
