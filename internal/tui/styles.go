package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/otpview/internal/version"
)

// Application branding
const (
	AppName   = "OTPVIEW"
	GitHubURL = "github.com/muurk/otpview"
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum card width in the picker
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#5A56E0") // Indigo, the default field tint
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
	BorderColor    = lipgloss.Color("#5A56E0")
	HighlightColor = lipgloss.Color("#43BF6D")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)
)

// RenderTitle renders a screen title
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// RenderError renders an error box
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// BuildHeaderContent returns the app name, version and project URL.
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Short())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func renderHeaderBar(terminalWidth int) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Render(BuildHeaderContent())
}

func renderFooterBar(helpText string, terminalWidth int) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(helpText))
}

// footerTextWidth is the room renderFooterBar leaves for help text.
func footerTextWidth(terminalWidth int) int {
	if w := terminalWidth - 6; w > 0 {
		return w
	}
	return 0
}

// ContentOrigin returns the terminal cell where RenderApplicationContainer
// places the first column and row of content.
func ContentOrigin(terminalWidth int) (x, y int) {
	return 1, 1 + lipgloss.Height(renderHeaderBar(terminalWidth))
}

// RenderApplicationContainer wraps a screen in the full-window frame: header
// with name and version, the content, and a footer with help text. With an
// unknown terminal size it returns the content and help unframed.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth <= 0 || terminalHeight <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, content, "", footerText)
	}

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeaderBar(terminalWidth),
		lipgloss.NewStyle().Width(terminalWidth-4).Render(content),
		renderFooterBar(footerText, terminalWidth),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}
