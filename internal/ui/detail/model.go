// Package detail shows one project with its metadata, progress and tasks.
package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/keys"
	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/theme"
	"github.com/nhle/projectpilot/internal/ui"
)

const displayDate = "Jan 02, 2006"

// Model is the project detail view component.
type Model struct {
	project  *model.Project
	cursor   int
	taskTop  int
	viewport viewport.Model
	store    store.Writer
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
}

// New creates a new detail view model.
func New(s store.Writer, k *keys.KeyMap, now func() time.Time, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		store:    s,
		keys:     k,
		now:      now,
		width:    width,
		height:   height,
	}
}

// ProjectID returns the ID of the project on display, or "".
func (m Model) ProjectID() string {
	if m.project == nil {
		return ""
	}
	return m.project.ID
}

// Cursor returns the index of the highlighted task.
func (m Model) Cursor() int {
	return m.cursor
}

// SetProject shows p. Switching to a different project resets the task
// cursor and scroll position.
func (m *Model) SetProject(p model.Project) {
	if m.project == nil || m.project.ID != p.ID {
		m.cursor = 0
		m.viewport.GotoTop()
	}
	m.project = &p
	m.clampCursor()
	m.viewport.SetContent(m.renderContent())
}

// Refresh re-reads the displayed project from projects. It reports false
// when the project no longer exists.
func (m *Model) Refresh(projects []model.Project) bool {
	if m.project == nil {
		return false
	}
	for _, p := range projects {
		if p.ID == m.project.ID {
			m.SetProject(p)
			return true
		}
	}
	m.project = nil
	return false
}

func (m *Model) clampCursor() {
	n := len(m.project.Tasks)
	switch {
	case n == 0:
		m.cursor = 0
	case m.cursor >= n:
		m.cursor = n - 1
	case m.cursor < 0:
		m.cursor = 0
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.project == nil || len(m.project.Tasks) == 0 {
		return model.Task{}, false
	}
	return m.project.Tasks[m.cursor], true
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.project == nil {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	p := *m.project
	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, ui.Emit(ui.BackMsg{})

	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(keyMsg, m.keys.ToggleTask):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		done := !t.Completed
		text := "Task completed"
		if !done {
			text = "Task reopened"
		}
		return m, ui.Mutate(text, func() error {
			_, err := m.store.UpdateTask(p.ID, t.ID, model.TaskPatch{Completed: &done})
			return err
		})

	case key.Matches(keyMsg, m.keys.AddTask):
		return m, ui.Emit(ui.EditTaskMsg{ProjectID: p.ID})

	case key.Matches(keyMsg, m.keys.EditTask):
		if t, ok := m.selectedTask(); ok {
			return m, ui.Emit(ui.EditTaskMsg{ProjectID: p.ID, TaskID: t.ID})
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.DeleteTask):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m, ui.Mutate("Task deleted", func() error {
			return m.store.DeleteTask(p.ID, t.ID)
		})

	case key.Matches(keyMsg, m.keys.CycleStatus):
		next := nextStatus(p.Status)
		return m, ui.Mutate("Status changed to "+next.Label(), func() error {
			_, err := m.store.Update(p.ID, model.ProjectPatch{Status: &next})
			return err
		})

	case key.Matches(keyMsg, m.keys.Edit):
		return m, ui.Emit(ui.EditProjectMsg{ID: p.ID})

	case key.Matches(keyMsg, m.keys.Delete):
		return m, ui.Emit(ui.ConfirmDeleteMsg{ID: p.ID, Name: p.Name})
	}

	// Delegate to viewport for paging (pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// moveCursor shifts the task cursor and scrolls it into view.
func (m *Model) moveCursor(delta int) {
	if len(m.project.Tasks) == 0 {
		return
	}
	m.cursor += delta
	m.clampCursor()
	m.viewport.SetContent(m.renderContent())

	line := m.taskTop + m.cursor
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func nextStatus(s model.Status) model.Status {
	all := model.Statuses()
	for i, st := range all {
		if st == s {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// View renders the detail view.
func (m Model) View() string {
	if m.project == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No project selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport and
// records the line on which the task list starts.
func (m *Model) renderContent() string {
	if m.project == nil {
		return ""
	}

	p := m.project
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections,
		titleStyle.Render(p.Name)+"  "+theme.StatusStyle(p.Status).Render(p.Status.Label()))

	if p.Description != "" {
		sections = append(sections, p.Description)
	} else {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description"))
	}
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(12)
	meta := func(label, value string) {
		sections = append(sections, metaStyle.Render(label)+value)
	}

	if len(p.TechStack) > 0 {
		tags := make([]string, len(p.TechStack))
		for i, t := range p.TechStack {
			tags[i] = theme.TagStyle.Render(t)
		}
		meta("Tech:", strings.Join(tags, ""))
	}
	if p.GithubURL != nil {
		meta("GitHub:", *p.GithubURL)
	}
	if p.DeploymentURL != nil {
		meta("Live:", *p.DeploymentURL)
	}
	if p.StartDate != nil {
		meta("Started:", p.StartDate.Format(displayDate))
	}
	if p.TargetCompletionDate != nil {
		meta("Target:", p.TargetCompletionDate.Format(displayDate))
	}
	meta("Created:", p.CreatedAt.Format("2006-01-02 15:04"))
	meta("Updated:", p.UpdatedAt.Format("2006-01-02 15:04"))

	done, total, percent := p.Progress()
	meta("Progress:", fmt.Sprintf("%s  %d/%d", theme.ProgressBar(percent, 30), done, total))

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, headerStyle.Render(fmt.Sprintf("Tasks (%d)", total)))

	if total == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No tasks yet. Press a to add one."))
		return strings.Join(sections, "\n")
	}

	m.taskTop = lipgloss.Height(strings.Join(sections, "\n"))
	now := m.now()
	for i, t := range p.Tasks {
		sections = append(sections, m.renderTask(t, i == m.cursor, now))
	}

	return strings.Join(sections, "\n")
}

// renderTask draws one task line.
func (m Model) renderTask(t model.Task, selected bool, now time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	desc := t.Description
	if t.Completed {
		desc = theme.CompletedTaskStyle.Render(desc)
	}

	due := ""
	if t.DueDate != nil {
		label := " due " + t.DueDate.Format("Jan 02")
		if t.IsOverdue(now) {
			due = theme.OverdueStyle.Render(label + " OVERDUE")
		} else {
			due = lipgloss.NewStyle().Foreground(theme.ColorGray).Render(label)
		}
	}

	line := fmt.Sprintf("%s %s%s", check, desc, due)
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.project != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
