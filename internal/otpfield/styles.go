package otpfield

import "github.com/charmbracelet/lipgloss"

var (
	// DefaultCellStyle frames one cell. The border color is replaced per
	// cell with the tint or off-tint.
	DefaultCellStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				MarginRight(1).
				Align(lipgloss.Center).
				Bold(true)

	// DefaultContainerStyle wraps the row of cells.
	DefaultContainerStyle = lipgloss.NewStyle()

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Italic(true)
)
