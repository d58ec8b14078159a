package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm renders a warning box listing warnings, then reads one line from in
// and reports whether it equals answer (case-insensitive). Any read error
// counts as a refusal.
func (p *Printer) Confirm(in io.Reader, title string, warnings []string, answer string) bool {
	width := p.width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{
		"",
		lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true).
			Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)),
		"",
	}
	bullet := lipgloss.NewStyle().Foreground(TextColor)
	for _, w := range warnings {
		lines = append(lines, bullet.Render("   • "+w))
	}
	lines = append(lines, "")

	p.Println(lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n")))

	p.Print(lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Render(fmt.Sprintf("Type %q and press Enter to continue: ", answer)))

	input, err := bufio.NewReader(in).ReadString('\n')
	p.Newline()
	if err != nil && input == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(input), answer) {
		return true
	}

	p.Println(lipgloss.NewStyle().Foreground(MutedColor).Render("  Cancelled."))
	return false
}
