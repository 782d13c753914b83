package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const dialogMinWidth = 30

var (
	dialogHeading = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f57b4")).Bold(true)
	dialogText    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ba0bf"))
	dialogInput   = lipgloss.NewStyle().Foreground(lipgloss.Color("#436b77"))
)

// Confirm asks a yes/no question.
func Confirm(title, message string, term int) string {
	return dialog(term,
		dialogHeading.Render(SanitizeOneLine(title)),
		"",
		dialogText.Render(message),
		"",
		dialogText.Render("y confirm · n cancel"),
	)
}

// Prompt shows a single line of typed input with a cursor block.
func Prompt(title, value string, term int) string {
	return dialog(term,
		dialogHeading.Render(SanitizeOneLine(title)),
		"",
		dialogInput.Render("> "+SanitizeOneLine(value)+"█"),
		"",
		dialogText.Render("enter submit · esc cancel"),
	)
}

// dialog sizes itself to its widest line, within the terminal when known.
func dialog(term int, lines ...string) string {
	body := strings.Join(lines, "\n")
	inner := max(lipgloss.Width(body), dialogMinWidth-panelChrome)
	if term > 0 {
		inner = min(inner, max(term-panelChrome, 1))
		body = fitLines(body, inner)
	}
	return panelBody.
		Border(panelBorders).
		BorderForeground(panelEdge).
		Width(inner + 4).
		Render(body)
}
