package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/capture"
	"github.com/gravitrone/studio-cli/internal/imagecache"
	"github.com/gravitrone/studio-cli/internal/logging"
	"github.com/gravitrone/studio-cli/internal/studio"
	"github.com/gravitrone/studio-cli/internal/ui/components"
)

// requestTimeout bounds every remote call issued from a view.
const requestTimeout = 30 * time.Second

// --- Messages ---

// instanceMsg is implemented by results that belong to one detail view
// instance. The app drops them once that instance is gone.
type instanceMsg interface {
	viewInstance() string
}

type studioOutcomeMsg struct {
	instance string
	outcome  studio.Outcome
}

type studioImageMsg struct {
	instance string
	info     string
}

type studioFileMsg struct {
	instance string
	dataURL  string
	err      error
}

type studioDropMsg struct {
	instance string
	capture  capture.Capture
}

func (m studioOutcomeMsg) viewInstance() string { return m.instance }
func (m studioImageMsg) viewInstance() string   { return m.instance }
func (m studioFileMsg) viewInstance() string    { return m.instance }
func (m studioDropMsg) viewInstance() string    { return m.instance }

type navigateMsg struct{ path string }
type noticeMsg struct{ notice studio.Notice }

func navigateCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg { return navigateMsg{path: path} }
}

func noticeCmd(n *studio.Notice) tea.Cmd {
	if n == nil {
		return nil
	}
	notice := *n
	return func() tea.Msg { return noticeMsg{notice: notice} }
}

// --- Studio Model ---

type studioView int

const (
	studioViewMain studioView = iota
	studioViewConfirmDelete
	studioViewImagePrompt
)

// StudioOptions wires a detail view to its collaborators.
type StudioOptions struct {
	Dispatcher *studio.Dispatcher
	Images     *imagecache.Cache
	DropDir    string
	MaxBytes   int64
	Logger     *slog.Logger
}

// StudioModel is the detail and edit screen for one studio. Each model is
// bound to a single route parameter for its whole life.
type StudioModel struct {
	instance string
	opts     StudioOptions
	logger   *slog.Logger
	state    studio.State

	name    textinput.Model
	url     textinput.Model
	focus   studio.Field
	prompt  textinput.Model
	spinner spinner.Model

	view      studioView
	imageInfo string

	scope   *capture.Scope
	hook    *capture.Hook
	dropErr string

	width  int
	height int
}

// NewStudioModel builds the view for a route parameter: an id or "new".
func NewStudioModel(param string, opts StudioOptions) StudioModel {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Studio name"
	name.CharLimit = 255

	url := textinput.New()
	url.Prompt = ""
	url.Placeholder = "https://"
	url.CharLimit = 2048

	prompt := textinput.New()
	prompt.Prompt = ""
	prompt.Placeholder = "~/Pictures/logo.png"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AccentStyle

	m := StudioModel{
		instance: uuid.NewString(),
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "ui.studio"),
		state:    studio.NewState(param),
		name:     name,
		url:      url,
		prompt:   prompt,
		spinner:  sp,
		scope:    &capture.Scope{},
	}
	m.state = studio.Reduce(m.state, studio.LoadStarted{})
	m.syncInputs()
	return m
}

// Instance identifies this view instance.
func (m StudioModel) Instance() string {
	return m.instance
}

// State exposes the current state.
func (m StudioModel) State() studio.State {
	return m.state
}

// Mount starts the drop folder hook. Calling it again while mounted reuses
// the running hook.
func (m *StudioModel) Mount() error {
	if strings.TrimSpace(m.opts.DropDir) == "" {
		return nil
	}
	hook, started, err := m.scope.Acquire(capture.HookOptions{
		Dir:      m.opts.DropDir,
		MaxBytes: m.opts.MaxBytes,
		Logger:   m.opts.Logger,
	})
	if err != nil {
		m.dropErr = err.Error()
		return err
	}
	m.hook = hook
	if started {
		m.logger.Debug("drop folder hook started", slog.String("dir", hook.Dir()), slog.String("instance", m.instance))
	}
	return nil
}

// Unmount releases the drop folder hook.
func (m *StudioModel) Unmount() {
	if err := m.scope.Release(); err != nil {
		m.logger.Warn("drop folder hook close failed", slog.Any("error", err))
	}
	m.hook = nil
}

func (m StudioModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load(), m.waitForDrop()}
	if m.state.Load == studio.Loading {
		cmds = append(cmds, m.spinner.Tick)
	}
	if m.state.Mode == studio.Editing {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

func (m StudioModel) Update(msg tea.Msg) (StudioModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.working() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case studioOutcomeMsg:
		return m.applyOutcome(msg.outcome)

	case studioImageMsg:
		m.imageInfo = msg.info
		return m, nil

	case studioFileMsg:
		if msg.err != nil {
			err := msg.err
			return m, func() tea.Msg { return errMsg{err} }
		}
		m = m.apply(studio.ImageCaptured{DataURL: msg.dataURL})
		return m, nil

	case studioDropMsg:
		next := m.waitForDrop()
		if msg.capture.Err != nil {
			m.dropErr = msg.capture.Err.Error()
			return m, next
		}
		m.dropErr = ""
		if m.state.Mode != studio.Editing {
			m.dropErr = "press e to edit before dropping an image"
			return m, next
		}
		m = m.apply(studio.ImageCaptured{DataURL: msg.capture.DataURL})
		return m, next

	case tea.KeyMsg:
		switch m.view {
		case studioViewConfirmDelete:
			return m.handleConfirmKeys(msg)
		case studioViewImagePrompt:
			return m.handlePromptKeys(msg)
		}
		if m.state.Mode == studio.Editing {
			return m.handleEditKeys(msg)
		}
		return m.handleViewKeys(msg)
	}
	return m, nil
}

// apply reduces one action and refreshes everything derived from state.
func (m StudioModel) apply(a studio.Action) StudioModel {
	before := m.state.Preview
	m.state = studio.Reduce(m.state, a)
	if _, typing := a.(studio.FieldChanged); !typing {
		m.syncInputs()
	}
	if m.state.Preview != before {
		m.imageInfo = describePending(m.state.Preview)
	}
	return m
}

func (m StudioModel) applyOutcome(out studio.Outcome) (StudioModel, tea.Cmd) {
	if out.Action == nil {
		return m, nil
	}
	m = m.apply(out.Action)
	cmds := []tea.Cmd{navigateCmd(out.Navigate), noticeCmd(out.Notice)}
	switch a := out.Action.(type) {
	case studio.LoadSucceeded, studio.SaveSucceeded:
		cmds = append(cmds, m.describeImage())
	case studio.DeleteFinished:
		if a.Err == nil && m.opts.Images != nil {
			m.opts.Images.Forget(m.state.Identity.ID)
		}
	}
	return m, tea.Batch(cmds...)
}

// syncInputs copies the displayed values into the text inputs. Inputs are
// only focused while editing.
func (m *StudioModel) syncInputs() {
	if m.name.Value() != m.state.DisplayName() {
		m.name.SetValue(m.state.DisplayName())
		m.name.CursorEnd()
	}
	if m.url.Value() != m.state.DisplayURL() {
		m.url.SetValue(m.state.DisplayURL())
		m.url.CursorEnd()
	}
	if m.state.Mode == studio.Editing {
		m.focusField(m.focus)
		return
	}
	m.name.Blur()
	m.url.Blur()
}

func (m *StudioModel) focusField(f studio.Field) tea.Cmd {
	m.focus = f
	if f == studio.FieldURL {
		m.name.Blur()
		return m.url.Focus()
	}
	m.url.Blur()
	return m.name.Focus()
}

func (m StudioModel) working() bool {
	return m.state.Busy() || m.state.AutoTag == studio.Loading
}

// --- Commands ---

func (m StudioModel) run(op func(ctx context.Context, d *studio.Dispatcher) studio.Outcome) tea.Cmd {
	d, instance := m.opts.Dispatcher, m.instance
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return studioOutcomeMsg{instance: instance, outcome: op(ctx, d)}
	}
}

func (m StudioModel) load() tea.Cmd {
	if m.state.Identity.IsNew {
		return nil
	}
	id := m.state.Identity
	return m.run(func(ctx context.Context, d *studio.Dispatcher) studio.Outcome {
		return d.Load(ctx, id)
	})
}

func (m StudioModel) reload() (StudioModel, tea.Cmd) {
	if m.state.Identity.IsNew || m.state.Busy() {
		return m, nil
	}
	m = m.apply(studio.LoadStarted{})
	return m, tea.Batch(m.load(), m.spinner.Tick)
}

func (m StudioModel) save() (StudioModel, tea.Cmd) {
	if !m.state.CanSave() {
		return m, nil
	}
	m = m.apply(studio.SaveStarted{})
	s := m.state
	return m, tea.Batch(m.run(func(ctx context.Context, d *studio.Dispatcher) studio.Outcome {
		return d.Save(ctx, s)
	}), m.spinner.Tick)
}

func (m StudioModel) remove() (StudioModel, tea.Cmd) {
	if !m.state.CanDelete() {
		return m, nil
	}
	m = m.apply(studio.DeleteStarted{})
	s := m.state
	return m, tea.Batch(m.run(func(ctx context.Context, d *studio.Dispatcher) studio.Outcome {
		return d.Delete(ctx, s)
	}), m.spinner.Tick)
}

func (m StudioModel) autoTag() (StudioModel, tea.Cmd) {
	if !m.state.CanAutoTag() {
		return m, nil
	}
	m = m.apply(studio.AutoTagStarted{})
	s := m.state
	return m, tea.Batch(m.run(func(ctx context.Context, d *studio.Dispatcher) studio.Outcome {
		return d.AutoTag(ctx, s)
	}), m.spinner.Tick)
}

func (m StudioModel) describeImage() tea.Cmd {
	id := m.state.Record.ID
	if m.opts.Images == nil || id == "" || m.state.Record.ImagePath == "" {
		return nil
	}
	images, instance := m.opts.Images, m.instance
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		img, err := images.Get(ctx, id)
		if err != nil {
			return studioImageMsg{instance: instance, info: "unavailable (" + err.Error() + ")"}
		}
		return studioImageMsg{instance: instance, info: imagecache.Describe(img)}
	}
}

func (m StudioModel) loadFile(path string) tea.Cmd {
	maxBytes, instance := m.opts.MaxBytes, m.instance
	return func() tea.Msg {
		dataURL, err := capture.LoadFile(path, maxBytes)
		return studioFileMsg{instance: instance, dataURL: dataURL, err: err}
	}
}

func (m StudioModel) waitForDrop() tea.Cmd {
	if m.hook == nil {
		return nil
	}
	ch, instance := m.hook.Captures(), m.instance
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return studioDropMsg{instance: instance, capture: c}
	}
}

// describePending summarises a captured image that has not been uploaded.
func describePending(preview string) string {
	if !strings.HasPrefix(preview, "data:") {
		return ""
	}
	contentType, data, err := capture.ParseDataURL(preview)
	if err != nil {
		return "pending upload"
	}
	return "pending upload, " + imagecache.Describe(&api.Image{ContentType: contentType, Data: data})
}

// --- Keys ---

func (m StudioModel) handleViewKeys(msg tea.KeyMsg) (StudioModel, tea.Cmd) {
	switch {
	case isBack(msg):
		return m, navigateCmd(studio.ListPath)
	case m.state.Busy():
		return m, nil
	case isKey(msg, "r"):
		return m.reload()
	case isKey(msg, "e"):
		if !m.state.Record.Loaded() {
			return m, nil
		}
		m = m.apply(studio.EditToggled{})
		return m, textinput.Blink
	case isKey(msg, "d"):
		if m.state.CanDelete() && m.state.Record.Loaded() {
			m.view = studioViewConfirmDelete
		}
	case isKey(msg, "a"):
		return m.autoTag()
	}
	return m, nil
}

func (m StudioModel) handleEditKeys(msg tea.KeyMsg) (StudioModel, tea.Cmd) {
	switch {
	case isBack(msg):
		if m.state.Identity.IsNew {
			return m, navigateCmd(studio.ListPath)
		}
		m = m.apply(studio.EditToggled{})
		return m, nil
	case m.state.Busy():
		return m, nil
	case isSave(msg):
		return m.save()
	case isKey(msg, "ctrl+o"):
		m.view = studioViewImagePrompt
		m.prompt.SetValue("")
		cmd := m.prompt.Focus()
		return m, cmd
	case isNextField(msg), isPrevField(msg):
		// Two fields, so forward and back both flip.
		next := studio.FieldURL
		if m.focus == studio.FieldURL {
			next = studio.FieldName
		}
		cmd := m.focusField(next)
		return m, cmd
	case isPaste(msg):
		dataURL, err := capture.DecodePaste(string(msg.Runes), m.opts.MaxBytes)
		if err == nil {
			m = m.apply(studio.ImageCaptured{DataURL: dataURL})
			return m, nil
		}
		if !errors.Is(err, capture.ErrNotImage) && !errors.Is(err, capture.ErrEmpty) {
			return m, func() tea.Msg { return errMsg{err} }
		}
		// Plain text goes into the focused field.
	}
	return m.updateFocusedInput(msg)
}

func (m StudioModel) updateFocusedInput(msg tea.KeyMsg) (StudioModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == studio.FieldURL {
		m.url, cmd = m.url.Update(msg)
		if v := m.url.Value(); v != m.state.DisplayURL() {
			m = m.apply(studio.FieldChanged{Field: studio.FieldURL, Value: v})
		}
		return m, cmd
	}
	m.name, cmd = m.name.Update(msg)
	if v := m.name.Value(); v != m.state.DisplayName() {
		m = m.apply(studio.FieldChanged{Field: studio.FieldName, Value: v})
	}
	return m, cmd
}

func (m StudioModel) handleConfirmKeys(msg tea.KeyMsg) (StudioModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		m.view = studioViewMain
		return m.remove()
	case isKey(msg, "n"), isBack(msg):
		m.view = studioViewMain
	}
	return m, nil
}

func (m StudioModel) handlePromptKeys(msg tea.KeyMsg) (StudioModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.view = studioViewMain
		m.prompt.Blur()
		return m, nil
	case isEnter(msg):
		path := strings.TrimSpace(m.prompt.Value())
		m.view = studioViewMain
		m.prompt.Blur()
		if path == "" {
			return m, nil
		}
		return m, m.loadFile(path)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// capturesText reports whether plain letter keys are being typed into an
// input rather than used as commands.
func (m StudioModel) capturesText() bool {
	return m.view == studioViewImagePrompt || m.state.Mode == studio.Editing
}

// hasUnsaved reports unsaved edits.
func (m StudioModel) hasUnsaved() bool {
	return m.state.Dirty()
}

// --- Rendering ---

func (m StudioModel) title() string {
	if name := strings.TrimSpace(m.state.DisplayName()); name != "" {
		return name
	}
	if m.state.Identity.IsNew {
		return "New Studio"
	}
	return "Studio"
}

func (m StudioModel) View() string {
	switch m.view {
	case studioViewConfirmDelete:
		msg := fmt.Sprintf("Delete %q? This cannot be undone.", components.SanitizeOneLine(m.title()))
		return components.Confirm("Delete Studio", msg, m.width)
	case studioViewImagePrompt:
		return components.Prompt("Image File", m.prompt.Value(), m.width)
	}

	if !m.state.Record.Loaded() && !m.state.Identity.IsNew {
		if m.state.Load == studio.Loading {
			return components.Panel("Studio", m.spinner.View()+" Loading studio...", m.width)
		}
		if m.state.LoadErr != nil {
			return components.AlertPanel("Studio unavailable", loadErrorText(m.state.LoadErr), m.width)
		}
	}

	var body string
	if m.state.Mode == studio.Editing {
		body = m.renderEdit()
	} else {
		body = m.renderDetail()
	}

	sections := []string{m.renderModeLine(), body}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	return components.Panel(components.SanitizeOneLine(m.title()), strings.Join(sections, "\n\n"), m.width)
}

func (m StudioModel) renderModeLine() string {
	badge := TypeBadgeStyle.Render(strings.ToUpper(m.state.Mode.String()))
	line := badge
	if m.state.Dirty() {
		line += " " + WarningStyle.Render("unsaved changes")
	}
	return line
}

func (m StudioModel) renderDetail() string {
	rows := []components.Field{
		{Label: "ID", Value: m.state.Record.ID},
		{Label: "Name", Value: orDash(m.state.Record.Name)},
		{Label: "URL", Value: orDash(m.state.Record.URL)},
		{Label: "Image", Value: m.imageLine()},
	}
	return components.Fields(rows, m.width)
}

func (m StudioModel) renderEdit() string {
	label := func(f studio.Field, text string) string {
		if m.focus == f {
			return SelectedStyle.Render("> " + text)
		}
		return MutedStyle.Render("  " + text)
	}
	lines := []string{
		label(studio.FieldName, "Name"),
		"    " + m.name.View(),
		"",
		label(studio.FieldURL, "URL"),
		"    " + m.url.View(),
		"",
		MutedStyle.Render("  Image"),
		"    " + NormalStyle.Render(components.SanitizeOneLine(m.imageLine())),
	}
	if m.hook != nil {
		lines = append(lines, "", MutedStyle.Render("  Paste an image or drop one into "+m.hook.Dir()))
	} else {
		lines = append(lines, "", MutedStyle.Render("  Paste an image or press ctrl+o to pick a file"))
	}
	return strings.Join(lines, "\n")
}

func (m StudioModel) imageLine() string {
	switch {
	case m.imageInfo != "":
		return m.imageInfo
	case m.state.Preview != "" && !strings.HasPrefix(m.state.Preview, "data:"):
		return m.state.Preview
	}
	return "no image"
}

func (m StudioModel) renderStatus() string {
	var lines []string
	switch {
	case m.state.Save == studio.Loading:
		lines = append(lines, m.spinner.View()+" Saving...")
	case m.state.Delete == studio.Loading:
		lines = append(lines, m.spinner.View()+" Deleting...")
	case m.state.Load == studio.Loading:
		lines = append(lines, m.spinner.View()+" Refreshing...")
	}
	if m.state.AutoTag == studio.Loading {
		lines = append(lines, m.spinner.View()+" Starting auto tag...")
	}
	if m.state.LoadErr != nil && m.state.Record.Loaded() {
		lines = append(lines, ErrorStyle.Render("refresh failed: "+loadErrorText(m.state.LoadErr)))
	}
	if m.dropErr != "" {
		lines = append(lines, WarningStyle.Render(components.SanitizeOneLine(m.dropErr)))
	}
	return strings.Join(lines, "\n")
}

// Hints lists the actions available right now. Mutations are left out while
// a request is in flight.
func (m StudioModel) Hints() []components.KeyHint {
	switch m.view {
	case studioViewConfirmDelete:
		return []components.KeyHint{components.Key("y", "Delete"), components.Key("n", "Cancel")}
	case studioViewImagePrompt:
		return []components.KeyHint{components.Key("enter", "Load"), components.Key("esc", "Cancel")}
	}
	if m.state.Busy() {
		return []components.KeyHint{components.Key("esc", "Back")}
	}
	if m.state.Mode == studio.Editing {
		hints := []components.KeyHint{
			components.Key("ctrl+s", "Save"),
			components.Key("tab", "Field"),
			components.Key("ctrl+o", "Image"),
		}
		if m.state.Identity.IsNew {
			return append(hints, components.Key("esc", "Back"))
		}
		return append(hints, components.Key("esc", "Cancel"))
	}
	var hints []components.KeyHint
	if m.state.Record.Loaded() {
		hints = append(hints, components.Key("e", "Edit"))
	}
	if m.state.CanDelete() && m.state.Record.Loaded() {
		hints = append(hints, components.Key("d", "Delete"))
	}
	if m.state.CanAutoTag() {
		hints = append(hints, components.Key("a", "Auto tag"))
	}
	return append(hints, components.Key("r", "Reload"), components.Key("esc", "Back"))
}

func loadErrorText(err error) string {
	if errors.Is(err, studio.ErrNotFound) || api.IsNotFound(err) {
		return "Studio not found."
	}
	return err.Error()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
