package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	keyCap = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#16161d")).
		Background(lipgloss.Color("#888ba4")).
		Bold(true).
		Padding(0, 1)
	keyAction = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ba0bf"))
	keyGap    = lipgloss.NewStyle().Foreground(lipgloss.Color("#273540")).Render("  ·  ")
)

// KeyHint is one entry of the hint bar.
type KeyHint struct {
	Key    string
	Action string
}

// Key pairs a key with the action it triggers.
func Key(key, action string) KeyHint {
	return KeyHint{Key: key, Action: action}
}

func (h KeyHint) render() string {
	return keyCap.Render(h.Key) + " " + keyAction.Render(h.Action)
}

// HintBar renders hints on as few centred rows as fit in width. A zero width
// keeps everything on one row.
func HintBar(hints []KeyHint, width int) string {
	if len(hints) == 0 {
		return ""
	}
	var rows []string
	row := ""
	for _, h := range hints {
		cell := h.render()
		if width > 0 && lipgloss.Width(cell) > width {
			cell = ansi.Truncate(cell, width, "")
		}
		switch {
		case row == "":
			row = cell
		case width > 0 && lipgloss.Width(row+keyGap+cell) > width:
			rows = append(rows, row)
			row = cell
		default:
			row += keyGap + cell
		}
	}
	rows = append(rows, row)

	if width > 0 {
		for i, r := range rows {
			rows[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, r)
		}
	}
	return strings.Join(rows, "\n")
}
