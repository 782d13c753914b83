package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gravitrone/studio-cli/internal/api"
	"github.com/gravitrone/studio-cli/internal/studio"
	"github.com/gravitrone/studio-cli/internal/ui/components"
)

type studiosLoadedMsg struct {
	query string
	items []api.Studio
	err   error
}

// StudiosModel lists studios and opens them.
type StudiosModel struct {
	client  *api.Client
	items   []api.Studio
	list    *components.List
	loading bool
	loadErr string
	spinner spinner.Model

	filter    textinput.Model
	filtering bool
	query     string

	width  int
	height int
}

// NewStudiosModel creates the list view.
func NewStudiosModel(client *api.Client) StudiosModel {
	filter := textinput.New()
	filter.Prompt = ""
	filter.Placeholder = "search by name"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AccentStyle

	return StudiosModel{
		client:  client,
		list:    components.NewList(15),
		loading: client != nil,
		spinner: sp,
		filter:  filter,
	}
}

func (m StudiosModel) Update(msg tea.Msg) (StudiosModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case studiosLoadedMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.items = msg.items
		labels := make([]string, len(msg.items))
		for i, s := range msg.items {
			labels[i] = s.Name
		}
		m.list.Replace(labels)
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m StudiosModel) fetch() tea.Cmd {
	client, query := m.client, m.query
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := client.QueryStudios(ctx, api.QueryParams{"search_text": query})
		return studiosLoadedMsg{query: query, items: items, err: err}
	}
}

func (m StudiosModel) reload() (StudiosModel, tea.Cmd) {
	if m.client == nil {
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m StudiosModel) handleListKeys(msg tea.KeyMsg) (StudiosModel, tea.Cmd) {
	switch {
	case isDown(msg):
		m.list.Down()
	case isUp(msg):
		m.list.Up()
	case isEnter(msg):
		if idx := m.list.Selected(); idx >= 0 && idx < len(m.items) {
			return m, navigateCmd(studio.DetailPath(m.items[idx].ID))
		}
	case isKey(msg, "n"):
		return m, navigateCmd(studio.DetailPath(studio.NewID))
	case isKey(msg, "r"):
		return m.reload()
	case isKey(msg, "/"):
		m.filtering = true
		m.filter.SetValue(m.query)
		cmd := m.filter.Focus()
		return m, cmd
	}
	return m, nil
}

func (m StudiosModel) handleFilterKeys(msg tea.KeyMsg) (StudiosModel, tea.Cmd) {
	switch {
	case isBack(msg):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case isEnter(msg):
		m.filtering = false
		m.filter.Blur()
		if query := strings.TrimSpace(m.filter.Value()); query != m.query {
			m.query = query
			m.items = nil
			m.list.SetItems(nil)
		}
		return m.reload()
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m StudiosModel) capturesText() bool {
	return m.filtering
}

func (m StudiosModel) View() string {
	if m.filtering {
		return components.Prompt("Search Studios", m.filter.Value(), m.width)
	}
	if m.loadErr != "" {
		return components.AlertPanel("Studios unavailable", m.loadErr, m.width)
	}
	if m.loading && len(m.items) == 0 {
		return components.Panel("Studios", m.spinner.View()+" Loading studios...", m.width)
	}
	if len(m.items) == 0 {
		empty := MutedStyle.Render("No studios yet. Press n to create one.")
		if m.query != "" {
			empty = MutedStyle.Render(fmt.Sprintf("No studios match %q.", components.SanitizeOneLine(m.query)))
		}
		return components.Panel("Studios", empty, m.width)
	}

	contentWidth := components.PanelInnerWidth(m.width)
	if contentWidth <= 0 {
		contentWidth = 60
	}
	nameWidth := contentWidth * 40 / 100
	// Updated takes the rest, about 14 cells.
	urlWidth := max(contentWidth-nameWidth-14-2, 8)
	columns := []components.Column{
		{Title: "Name", Width: nameWidth, Align: lipgloss.Left},
		{Title: "URL", Width: urlWidth, Align: lipgloss.Left},
		{Title: "Updated", Align: lipgloss.Right},
	}

	visible := m.list.Visible()
	rows := make([][]string, 0, len(visible))
	active := -1
	for rel := range visible {
		abs := m.list.RelToAbs(rel)
		s := m.items[abs]
		if m.list.IsSelected(abs) {
			active = rel
		}
		rows = append(rows, []string{s.Name, orDash(s.URL), updatedLabel(s)})
	}

	title := "Studios"
	if m.query != "" {
		title = fmt.Sprintf("Studios matching %q", components.SanitizeOneLine(m.query))
	}
	count := MutedStyle.Render(fmt.Sprintf("%d studios", len(m.items)))
	body := components.Grid(columns, rows, contentWidth, active) + "\n\n" + count
	return components.Panel(title, body, m.width)
}

func updatedLabel(s api.Studio) string {
	if s.UpdatedAt.IsZero() {
		return "-"
	}
	return humanize.Time(s.UpdatedAt)
}

// Hints lists the list view's keys.
func (m StudiosModel) Hints() []components.KeyHint {
	if m.filtering {
		return []components.KeyHint{components.Key("enter", "Search"), components.Key("esc", "Cancel")}
	}
	return []components.KeyHint{
		components.Key("↑/↓", "Move"),
		components.Key("enter", "Open"),
		components.Key("n", "New"),
		components.Key("/", "Search"),
		components.Key("r", "Reload"),
		components.Key("q", "Quit"),
	}
}
