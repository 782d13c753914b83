package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Constants ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool {
	return isKey(msg, "up")
}

func isDown(msg tea.KeyMsg) bool {
	return isKey(msg, "down")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

// isNextField and isPrevField move focus between the editable fields.
func isNextField(msg tea.KeyMsg) bool {
	return isKey(msg, "tab", "down")
}

func isPrevField(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+tab", "up")
}

func isSave(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+s")
}

// isPaste reports a bracketed paste. Terminals deliver dragged files the
// same way.
func isPaste(msg tea.KeyMsg) bool {
	return msg.Paste
}
