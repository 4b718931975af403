package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pakrecharge/topup/internal/version"
)

// Application branding constants
const (
	AppName    = "PAKRECHARGE MOBILE TOP-UP"
	AppTagline = "Jazz · Telenor · Zong · Ufone"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 72 // Minimum supported terminal width
	MinTerminalHeight = 24
	LabelWidth        = 18
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#0F9D58") // Green
	SecondaryColor = lipgloss.Color("#43BF6D") // Light green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor       = lipgloss.Color("#FFFFFF") // White
	SubtleColor     = lipgloss.Color("#626262") // Gray
	BorderColor     = lipgloss.Color("#0F9D58") // Green (same as primary)
	HighlightColor  = lipgloss.Color("#F4B400") // Amber
	BackgroundColor = lipgloss.Color("#1A1A1A") // Dark gray
)

var (
	// Row label (unfocused)
	LabelStyle = lipgloss.NewStyle().
			Width(LabelWidth).
			Foreground(SubtleColor)

	// Row label (focused)
	FocusedLabelStyle = lipgloss.NewStyle().
				Width(LabelWidth).
				Foreground(HighlightColor).
				Bold(true)

	OptionStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1)

	SelectedOptionStyle = lipgloss.NewStyle().
				Foreground(BackgroundColor).
				Background(PrimaryColor).
				Bold(true).
				Padding(0, 1)

	// Option under the horizontal cursor of the focused row
	CursorOptionStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Underline(true).
				Padding(0, 1)

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(LabelWidth + 2)

	HintStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true).
			PaddingLeft(LabelWidth + 2)

	NotificationStyle = lipgloss.NewStyle().
				Foreground(BackgroundColor).
				Background(HighlightColor).
				Bold(true).
				Padding(0, 1)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	FocusedButtonStyle = lipgloss.NewStyle().
				Foreground(BackgroundColor).
				Background(PrimaryColor).
				Bold(true)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	SuccessPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(SecondaryColor).
				Padding(0, 2).
				MarginLeft(LabelWidth + 2)

	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	DropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			MarginLeft(LabelWidth + 2)
)

// BuildHeaderContent creates header content with app name and tagline
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(AppTagline)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(helpText)
}

// RenderApplicationContainer wraps the form in a full-screen panel with the
// application header and a help footer.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight < MinTerminalHeight {
		terminalHeight = MinTerminalHeight
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Padding(1, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(BuildFooterContent(footerText)),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		bordered,
	)
}
