package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))
	assert.False(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
}

func TestIsEnter(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsDown(t *testing.T) {
	assert.True(t, isDown(tea.KeyMsg{Type: tea.KeyDown}))
	assert.False(t, isDown(tea.KeyMsg{Type: tea.KeyUp}))
	assert.False(t, isDown(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}))
}

func TestIsUp(t *testing.T) {
	assert.True(t, isUp(tea.KeyMsg{Type: tea.KeyUp}))
	assert.False(t, isUp(tea.KeyMsg{Type: tea.KeyDown}))
	assert.False(t, isUp(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}))
}

func TestFieldNavigation(t *testing.T) {
	assert.True(t, isNextField(tea.KeyMsg{Type: tea.KeyTab}))
	assert.True(t, isNextField(tea.KeyMsg{Type: tea.KeyDown}))
	assert.True(t, isPrevField(tea.KeyMsg{Type: tea.KeyShiftTab}))
	assert.False(t, isNextField(tea.KeyMsg{Type: tea.KeyShiftTab}))
}

func TestIsSave(t *testing.T) {
	assert.True(t, isSave(tea.KeyMsg{Type: tea.KeyCtrlS}))
	assert.False(t, isSave(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}))
}

func TestIsPaste(t *testing.T) {
	assert.True(t, isPaste(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/a.png"), Paste: true}))
	assert.False(t, isPaste(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}))
}

func TestIsKey(t *testing.T) {
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "s"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, "a"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyBackspace}, "backspace"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyLeft}, "left"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "a"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyLeft}, "right"))
}
