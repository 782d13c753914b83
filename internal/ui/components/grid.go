package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	gridRule   = lipgloss.NewStyle().Foreground(panelEdge)
	gridHeader = fieldLabel
	gridActive = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Background(lipgloss.Color("#1f2530")).
			Bold(true)
)

// Column is one column of a Grid. The last column stretches to fill
// whatever width the others leave.
type Column struct {
	Title string
	Width int
	Align lipgloss.Position
}

// Grid renders a header, a rule and rows, every line exactly width cells
// wide. Row active is highlighted; -1 highlights nothing.
func Grid(columns []Column, rows [][]string, width, active int) string {
	if width <= 0 || len(columns) == 0 {
		return ""
	}
	widths := columnWidths(columns, width)

	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.Title
	}
	lines := []string{gridHeader.Render(gridLine(columns, widths, titles, width))}

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	lines = append(lines, gridRule.Render(ansi.Truncate(strings.Join(rule, "┼"), width, "")))

	for i, row := range rows {
		line := gridLine(columns, widths, row, width)
		if i == active {
			line = gridActive.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func columnWidths(columns []Column, width int) []int {
	widths := make([]int, len(columns))
	used := len(columns) - 1
	for i, c := range columns[:len(columns)-1] {
		widths[i] = max(c.Width, 1)
		used += widths[i]
	}
	widths[len(widths)-1] = max(width-used, 1)
	return widths
}

func gridLine(columns []Column, widths []int, cells []string, width int) string {
	parts := make([]string, len(columns))
	for i, w := range widths {
		text := ""
		if i < len(cells) {
			text = Fit(cells[i], w)
		}
		parts[i] = lipgloss.PlaceHorizontal(w, columns[i].Align, text)
	}
	line := strings.Join(parts, "│")
	if lipgloss.Width(line) > width {
		return ansi.Truncate(line, width, "")
	}
	return padRight(line, width)
}
