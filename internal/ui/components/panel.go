package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	panelMinWidth = 40
	panelMaxWidth = 80
	// border (1+1) plus horizontal padding (2+2)
	panelChrome = 6
)

var (
	panelEdge    = lipgloss.Color("#273540")
	alertEdge    = lipgloss.Color("#7a2f3a")
	panelTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f57b4")).Bold(true)
	alertTitle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75")).Bold(true)
	alertText    = lipgloss.NewStyle().Foreground(lipgloss.Color("#d6b5b5"))
	fieldLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#436b77")).Bold(true)
	fieldValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d7d9da"))
	panelBody    = lipgloss.NewStyle().Padding(1, 2)
	panelBorders = lipgloss.RoundedBorder()
)

// PanelWidth is the outer width of a panel drawn in a terminal term columns
// wide: about 70% of it, kept between 40 and 80 but never wider than term.
func PanelWidth(term int) int {
	if term <= 0 {
		return 0
	}
	w := min(max(term*7/10, panelMinWidth), panelMaxWidth)
	return min(w, term)
}

// PanelInnerWidth is the room left for content inside PanelWidth(term).
func PanelInnerWidth(term int) int {
	return max(PanelWidth(term)-panelChrome, 0)
}

// Panel frames body in a rounded border with title set into the top edge.
// A zero term leaves the panel at its natural width.
func Panel(title, body string, term int) string {
	return framed(title, body, term, panelEdge, panelTitle)
}

// AlertPanel is Panel in error colours.
func AlertPanel(title, message string, term int) string {
	return framed(title, alertText.Render(message), term, alertEdge, alertTitle)
}

func framed(title, body string, term int, edge lipgloss.Color, titleStyle lipgloss.Style) string {
	style := panelBody.
		Border(panelBorders, false, true, true, true).
		BorderForeground(edge)
	if outer := PanelWidth(term); outer > 0 {
		inner := max(outer-panelChrome, 1)
		body = fitLines(body, inner)
		style = style.Width(inner + 4)
	}
	rest := style.Render(body)
	width := lipgloss.Width(rest)
	return topEdge(title, width, edge, titleStyle) + "\n" + rest
}

// topEdge draws "╭─ title ────╮" exactly width cells wide.
func topEdge(title string, width int, edge lipgloss.Color, titleStyle lipgloss.Style) string {
	line := lipgloss.NewStyle().Foreground(edge)
	span := width - 2
	if span < 0 {
		return ""
	}
	label := ""
	if title = SanitizeOneLine(title); title != "" && span >= 5 {
		label = " " + ansi.Truncate(title, span-3, "") + " "
	}
	if label == "" {
		return line.Render(panelBorders.TopLeft + strings.Repeat(panelBorders.Top, span) + panelBorders.TopRight)
	}
	fill := span - 1 - lipgloss.Width(label)
	return line.Render(panelBorders.TopLeft+panelBorders.Top) +
		titleStyle.Render(label) +
		line.Render(strings.Repeat(panelBorders.Top, max(fill, 0))+panelBorders.TopRight)
}

// fitLines truncates every line of s to width cells, keeping its styling.
func fitLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if lipgloss.Width(l) > width {
			lines[i] = ansi.Truncate(l, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// Fit flattens text to one sanitized line no wider than width cells.
// Non-positive widths only sanitize.
func Fit(text string, width int) string {
	flat := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(flat) <= width {
		return flat
	}
	return ansi.Truncate(flat, width, "")
}

// Field is one labelled value in a Fields block.
type Field struct {
	Label string
	Value string
}

// Fields lays out label/value pairs in two aligned columns that fit inside
// a panel for a terminal term columns wide.
func Fields(fields []Field, term int) string {
	if len(fields) == 0 {
		return ""
	}
	labelW := 0
	for _, f := range fields {
		labelW = max(labelW, lipgloss.Width(SanitizeOneLine(f.Label)))
	}
	room := PanelInnerWidth(term)
	if room > 0 {
		labelW = min(labelW, max(room/3, 4))
	}
	valueW := 0
	if room > 0 {
		valueW = max(room-labelW-2, 1)
	}

	out := make([]string, len(fields))
	for i, f := range fields {
		label := padRight(Fit(f.Label, labelW), labelW)
		out[i] = fieldLabel.Render(label) + "  " + fieldValue.Render(Fit(f.Value, valueW))
	}
	return strings.Join(out, "\n")
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
