package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/config"
	"github.com/gravitrone/studio-cli/internal/imagecache"
	"github.com/gravitrone/studio-cli/internal/logging"
	"github.com/gravitrone/studio-cli/internal/studio"
	"github.com/gravitrone/studio-cli/internal/ui/components"
)

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}

type appToast struct {
	level string
	text  string
}

// Deps are the collaborators shared by every screen.
type Deps struct {
	Client     *api.Client
	Dispatcher *studio.Dispatcher
	Images     *imagecache.Cache
	Config     *config.Config
	Logger     *slog.Logger
}

// --- App Model ---

// App is the root TUI model. It owns the current route and mounts a fresh
// detail view every time a studio route is entered.
type App struct {
	deps   Deps
	logger *slog.Logger

	route    string
	onDetail bool
	list     StudiosModel
	detail   StudioModel

	width       int
	height      int
	err         string
	quitConfirm bool
	toast       *appToast

	// boot is the first load for the route NewApp was given.
	boot tea.Cmd
}

// NewApp creates the root model positioned on route. An empty route opens
// the studio list.
func NewApp(deps Deps, route string) App {
	a := App{
		deps:   deps,
		logger: logging.NewComponentLogger(deps.Logger, "ui"),
		list:   NewStudiosModel(deps.Client),
	}
	a.boot = a.mount(route)
	return a
}

// Route is the current route.
func (a App) Route() string {
	return a.route
}

// Close releases resources held by the mounted view.
func (a *App) Close() {
	if a.onDetail {
		a.detail.Unmount()
	}
}

func (a App) Init() tea.Cmd {
	return a.boot
}

func (a App) studioOptions() StudioOptions {
	opts := StudioOptions{
		Dispatcher: a.deps.Dispatcher,
		Images:     a.deps.Images,
		Logger:     a.deps.Logger,
	}
	if cfg := a.deps.Config; cfg != nil {
		opts.DropDir = cfg.ImageDropDir
		opts.MaxBytes = cfg.MaxImageBytes
	}
	return opts
}

// mount switches to path, unmounting the detail view that was showing.
func (a *App) mount(path string) tea.Cmd {
	if a.onDetail {
		a.detail.Unmount()
		a.onDetail = false
	}
	if param, ok := studio.ParsePath(path); ok {
		a.route = path
		a.detail = NewStudioModel(param, a.studioOptions())
		a.detail.width = a.width
		a.detail.height = a.height
		if err := a.detail.Mount(); err != nil {
			a.logger.Warn("drop folder unavailable", slog.Any("error", err))
		}
		a.onDetail = true
		a.logger.Debug("route mounted", slog.String("route", path), slog.String("instance", a.detail.instance))
		return a.detail.Init()
	}
	a.route = studio.ListPath
	a.list.width = a.width
	a.list.height = a.height
	var cmd tea.Cmd
	a.list, cmd = a.list.reload()
	return cmd
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.width = msg.Width
		a.list.height = msg.Height
		a.detail.width = msg.Width
		a.detail.height = msg.Height
		return a, nil

	case errMsg:
		a.err = msg.err.Error()
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case noticeMsg:
		if msg.notice.Err != nil {
			cmd := a.setToast("error", msg.notice.Err.Error())
			return a, cmd
		}
		cmd := a.setToast("success", msg.notice.Success)
		return a, cmd
	case navigateMsg:
		cmd := a.mount(msg.path)
		return a, cmd

	case tea.KeyMsg:
		if a.quitConfirm {
			switch {
			case isKey(msg, "y"):
				a.Close()
				return a, tea.Quit
			case isKey(msg, "n"), isBack(msg):
				a.quitConfirm = false
			}
			return a, nil
		}
		if a.err != "" {
			a.err = ""
		}
		if isKey(msg, "ctrl+c") || (isQuit(msg) && !a.capturesText()) {
			if a.onDetail && a.detail.hasUnsaved() {
				a.quitConfirm = true
				return a, nil
			}
			a.Close()
			return a, tea.Quit
		}
	}

	if im, ok := msg.(instanceMsg); ok {
		if !a.onDetail || im.viewInstance() != a.detail.instance {
			// The view that asked for this is gone.
			a.logger.Debug("dropped result for closed view", slog.String("instance", im.viewInstance()), slog.String("type", fmt.Sprintf("%T", msg)))
			// Only the notice outlives the view.
			if res, ok := msg.(studioOutcomeMsg); ok {
				return a, noticeCmd(res.outcome.Notice)
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	if a.onDetail {
		a.detail, cmd = a.detail.Update(msg)
	} else {
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

func (a App) capturesText() bool {
	if a.onDetail {
		return a.detail.capturesText()
	}
	return a.list.capturesText()
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	crumbs := centerBlockUniform(a.renderCrumbs(), a.width)

	var content string
	if a.onDetail {
		content = a.detail.View()
	} else {
		content = a.list.View()
	}
	if a.quitConfirm {
		content = components.Confirm("Quit", "You have unsaved changes. Quit anyway?", a.width)
	}
	content = centerBlockUniform(content, a.width)

	hints := components.HintBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.AlertPanel("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n\n%s%s", banner, crumbs, content, hints, feedback)
}

func (a App) renderCrumbs() string {
	if !a.onDetail {
		return TabActiveStyle.Render("Studios")
	}
	sep := MutedStyle.Render(" / ")
	return TabInactiveStyle.Render("Studios") + sep + TabActiveStyle.Render(components.Fit(a.detail.title(), 40))
}

func (a App) statusHints() []components.KeyHint {
	if a.quitConfirm {
		return []components.KeyHint{components.Key("y", "Quit"), components.Key("n", "Stay")}
	}
	if a.onDetail {
		return a.detail.Hints()
	}
	return a.list.Hints()
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	switch a.toast.level {
	case "success":
		return components.Panel("Success", SuccessStyle.Render(a.toast.text), a.width)
	case "error":
		code, message := parseErrorCodeAndMessage(a.toast.text)
		title := "Error"
		if code != "" {
			title = code
		}
		return components.AlertPanel(title, message, a.width)
	}
	return components.Panel("Info", a.toast.text, a.width)
}

// parseErrorCodeAndMessage splits "CODE: message" as produced by API error
// envelopes.
func parseErrorCodeAndMessage(errText string) (string, string) {
	text := strings.TrimSpace(errText)
	if text == "" {
		return "", ""
	}
	parts := strings.SplitN(text, ":", 2)
	if len(parts) != 2 {
		return "", text
	}
	code := strings.TrimSpace(parts[0])
	if code == "" || strings.HasPrefix(strings.ToUpper(code), "HTTP ") {
		return "", text
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return "", text
		}
	}
	return code, strings.TrimSpace(parts[1])
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
