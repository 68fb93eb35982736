// Package dashboard lists projects with a status filter and text search.
package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/keys"
	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/theme"
	"github.com/nhle/projectpilot/internal/ui"
)

// statusFilters is the tab cycle: nil means all statuses.
var statusFilters = func() []*model.Status {
	out := []*model.Status{nil}
	for _, s := range model.Statuses() {
		out = append(out, &s)
	}
	return out
}()

// Model is the project dashboard view component.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	now         func() time.Time
	projects    []model.Project
	filter      store.Filter
	filterIndex int
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a dashboard model. now drives overdue markers.
func New(k *keys.KeyMap, now func() time.Time, width, height int) Model {
	l := list.New([]list.Item{}, ProjectDelegate{now: now}, width, height-3)
	l.Title = "Projects"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search name, description or tech..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		now:         now,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetProjects replaces the project collection and re-applies the filter.
func (m *Model) SetProjects(projects []model.Project) {
	m.projects = projects
	m.refresh()
}

// SetStatusFilter restricts the list to one status, or all when nil.
func (m *Model) SetStatusFilter(status *model.Status) {
	m.filterIndex = 0
	if status != nil {
		for i, s := range statusFilters {
			if s != nil && *s == *status {
				m.filterIndex = i
			}
		}
	}
	m.filter.Status = statusFilters[m.filterIndex]
	m.refresh()
}

// SetQuery sets the search text.
func (m *Model) SetQuery(q string) {
	m.filter.Query = q
	m.searchInput.SetValue(q)
	m.refresh()
}

// Filter returns the active filter.
func (m Model) Filter() store.Filter {
	return m.filter
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Visible returns the projects currently listed.
func (m Model) Visible() []model.Project {
	items := m.list.Items()
	out := make([]model.Project, 0, len(items))
	for _, it := range items {
		if pi, ok := it.(ProjectItem); ok {
			out = append(out, pi.Project)
		}
	}
	return out
}

// Selected returns the highlighted project.
func (m Model) Selected() (model.Project, bool) {
	pi, ok := m.list.SelectedItem().(ProjectItem)
	return pi.Project, ok
}

func (m *Model) refresh() {
	visible := store.SearchProjects(m.projects, m.filter)
	items := make([]list.Item, len(visible))
	for i, p := range visible {
		items[i] = ProjectItem{Project: p}
	}
	m.list.SetItems(items)
	m.list.Title = "Projects · " + m.filterLabel()
}

func (m Model) filterLabel() string {
	label := "All"
	if m.filter.Status != nil {
		label = m.filter.Status.Label()
	}
	if m.filter.Query != "" {
		label += fmt.Sprintf(" · %q", m.filter.Query)
	}
	return label
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. Results
// follow the input as it is typed.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.filter.Query = ""
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.filter.Query {
		m.filter.Query = q
		m.refresh()
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if p, ok := m.Selected(); ok {
			return m, ui.Emit(ui.OpenProjectMsg{ID: p.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.filter.Query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleFilter):
		m.filterIndex = (m.filterIndex + 1) % len(statusFilters)
		m.filter.Status = statusFilters[m.filterIndex]
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.New):
		return m, ui.Emit(ui.EditProjectMsg{})

	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.Selected(); ok {
			return m, ui.Emit(ui.EditProjectMsg{ID: p.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if p, ok := m.Selected(); ok {
			return m, ui.Emit(ui.ConfirmDeleteMsg{ID: p.ID, Name: p.Name})
		}
		return m, nil
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	summary := m.renderSummary()

	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, summary, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, summary, m.renderEmptyState())
	}

	return lipgloss.JoinVertical(lipgloss.Left, summary, m.list.View())
}

// renderSummary shows collection-wide counts above the list.
func (m Model) renderSummary() string {
	st := store.ComputeStats(m.projects, m.now())
	text := fmt.Sprintf(
		"%d projects · %d in progress · %d/%d tasks done · %d due",
		st.Projects, st.ByStatus[model.StatusInProgress],
		st.CompletedTasks, st.Tasks, st.DueTasks,
	)
	line := lipgloss.NewStyle().Foreground(theme.ColorGray).Padding(0, 1).Render(text)
	if st.OverdueTasks > 0 {
		line += theme.OverdueStyle.Render(fmt.Sprintf(" · %d overdue", st.OverdueTasks))
	}
	return line
}

// renderEmptyState shows guidance text when no projects are listed.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-1).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.Status != nil || m.filter.Query != "" {
		return style.Render("No matching projects.\nPress tab to change the status filter or / to search.")
	}
	return style.Render("No projects yet.\n\nPress n to create one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
}
