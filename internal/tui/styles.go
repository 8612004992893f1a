package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	ColorBgHighlight = lipgloss.Color("#2C313C")

	ColorFgPrimary   = lipgloss.Color("#ABB2BF")
	ColorFgSecondary = lipgloss.Color("#828997")
	ColorFgMuted     = lipgloss.Color("#636B78")
	ColorFgComment   = lipgloss.Color("#5C6370")

	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorCyan    = lipgloss.Color("#56B6C2")
	ColorOrange  = lipgloss.Color("#D19A66")

	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			PaddingLeft(1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	BodyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// List rows
	SelectedStyle = lipgloss.NewStyle().
			Background(ColorBgHighlight).
			Foreground(ColorFgPrimary).
			Bold(true)

	ItemStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	MetaStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary)

	// Forms
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary).
			Width(18)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true).
				Width(18)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	// Chat bubbles
	UserBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorGreen).
			PaddingLeft(1)

	AssistantBubbleStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorBlue).
				PaddingLeft(1)

	ErrorBubbleStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorRed).
				PaddingLeft(1)

	// Dialogs
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorYellow).
			Padding(1, 2)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	// Dimmed/info style for less important messages
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgComment)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true)
)

// statusStyle colors an application status
func statusStyle(s string) lipgloss.Style {
	switch s {
	case "shortlisted":
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case "hired":
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case "rejected":
		return lipgloss.NewStyle().Foreground(ColorRed)
	case "withdrawn":
		return lipgloss.NewStyle().Foreground(ColorFgComment)
	default:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	}
}
