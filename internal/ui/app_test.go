package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/studio"
	"github.com/gravitrone/studio-cli/internal/ui/components"
)

func TestParseErrorCodeAndMessage(t *testing.T) {
	cases := []struct {
		in      string
		code    string
		message string
	}{
		{"CONFLICT: studio has scenes", "CONFLICT", "studio has scenes"},
		{"NOT_FOUND: studio not found", "NOT_FOUND", "studio not found"},
		{"HTTP 502: bad gateway", "", "HTTP 502: bad gateway"},
		{"open image: no such file", "", "open image: no such file"},
		{"plain message", "", "plain message"},
		{"  ", "", ""},
	}
	for _, tc := range cases {
		code, message := parseErrorCodeAndMessage(tc.in)
		assert.Equal(t, tc.code, code, tc.in)
		assert.Equal(t, tc.message, message, tc.in)
	}
}

func TestCenterBlockUniformKeepsAlignment(t *testing.T) {
	out := centerBlockUniform("abcd\nab\n\nabc", 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "   abcd", lines[0])
	assert.Equal(t, "   ab", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "   abc", lines[3])
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 10)
	}
}

func TestAppCrumbsFollowRoute(t *testing.T) {
	_, ts := newStudioServer(t, acme)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), studio.DetailPath("7"))

	crumbs := func(a App) string {
		return strings.Join(strings.Fields(components.SanitizeText(a.renderCrumbs())), " ")
	}
	assert.Equal(t, "Studios / Acme", crumbs(app))

	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "Studios", crumbs(app))
}

func TestAppErrorClearsOnNextKey(t *testing.T) {
	_, ts := newStudioServer(t, acme)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), studio.DetailPath("7"))

	model, _ := app.Update(errMsg{errors.New("disk on fire")})
	app = model.(App)
	assert.Contains(t, components.SanitizeText(app.View()), "disk on fire")

	app = press(t, app, tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, app.err)
}

func TestAppToastExpires(t *testing.T) {
	_, ts := newStudioServer(t)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), "")

	model, cmd := app.Update(noticeMsg{notice: studio.Notice{Success: "Studio deleted."}})
	app = model.(App)
	require.NotNil(t, cmd)
	require.NotNil(t, app.toast)
	assert.Contains(t, components.SanitizeText(app.View()), "Studio deleted.")

	model, _ = app.Update(clearToastMsg{})
	app = model.(App)
	assert.Nil(t, app.toast)
}

func TestAppErrorToastUsesCodeAsTitle(t *testing.T) {
	_, ts := newStudioServer(t)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), "")

	err := &api.Error{Status: 409, Message: "CONFLICT: studio has scenes"}
	model, _ := app.Update(noticeMsg{notice: studio.Notice{Err: err}})
	app = model.(App)

	out := components.SanitizeText(app.renderToast())
	assert.Contains(t, out, "CONFLICT")
	assert.Contains(t, out, "studio has scenes")
	assert.NotContains(t, out, "CONFLICT: studio")
}

func TestAppQuitWithoutChanges(t *testing.T) {
	_, ts := newStudioServer(t, acme)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), studio.DetailPath("7"))

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppDropsResultsForOtherInstance(t *testing.T) {
	_, ts := newStudioServer(t, acme)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), studio.DetailPath("7"))

	model, cmd := app.Update(studioImageMsg{instance: "someone-else", info: "bogus"})
	app = model.(App)
	assert.Nil(t, cmd)
	assert.NotEqual(t, "bogus", app.detail.imageInfo)

	model, _ = app.Update(studioImageMsg{instance: app.detail.Instance(), info: "fresh"})
	app = model.(App)
	assert.Equal(t, "fresh", app.detail.imageInfo)
}

func TestAppKeepsNoticeFromClosedView(t *testing.T) {
	_, ts := newStudioServer(t, acme)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), studio.DetailPath("7"))
	closed := app.detail.Instance()
	app = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, studio.ListPath, app.Route())

	late := studioOutcomeMsg{
		instance: closed,
		outcome: studio.Outcome{
			Action:   studio.DeleteFinished{Err: errors.New("CONFLICT: studio has scenes")},
			Navigate: studio.DetailPath("7"),
			Notice:   &studio.Notice{Err: errors.New("CONFLICT: studio has scenes")},
		},
	}
	app = settle(t, app, func() tea.Msg { return late })

	assert.Equal(t, studio.ListPath, app.Route())
	assert.False(t, app.onDetail)
	require.NotNil(t, app.toast)
	assert.Equal(t, "error", app.toast.level)
	assert.Contains(t, components.SanitizeText(app.renderToast()), "studio has scenes")
}

func TestAppBootLoadsListOnce(t *testing.T) {
	srv, ts := newStudioServer(t, acme)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), "")

	assert.Equal(t, []string{"GET /api/studios"}, srv.requestLog())
	assert.False(t, app.list.loading)
	require.Len(t, app.list.items, 1)
}

func TestAppBootLoadsStudioOnce(t *testing.T) {
	srv, ts := newStudioServer(t, acme)
	startApp(t, testDeps(t, ts, studio.DefaultOptions()), studio.DetailPath("7"))

	loads := 0
	for _, req := range srv.requestLog() {
		if req == "GET /api/studios/7" {
			loads++
		}
	}
	assert.Equal(t, 1, loads)
}

func TestAppUnknownRouteFallsBackToList(t *testing.T) {
	_, ts := newStudioServer(t)
	app := startApp(t, testDeps(t, ts, studio.DefaultOptions()), "/somewhere/else")

	assert.Equal(t, studio.ListPath, app.Route())
	assert.False(t, app.onDetail)
}
