package observability

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of styles a Printer applies to report lines.
type Styles struct {
	Error   lipgloss.Style
	Warn    lipgloss.Style
	Success lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
}

// ColorStyles returns the styles used on a terminal.
func ColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")).Bold(true),
		Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBD2E")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// PlainStyles returns styles that leave text untouched.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{Error: plain, Warn: plain, Success: plain, Header: plain, Muted: plain}
}

// padRight pads s to width terminal cells.
func padRight(s string, width int) string {
	vw := lipgloss.Width(s)
	if vw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-vw)
}

// truncate shortens s to at most width cells, marking the cut with "...".
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
