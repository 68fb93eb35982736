// Package confirm asks a yes/no question before a project is deleted.
package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/ui"
)

// ResultMsg carries the answer for the project with ID.
type ResultMsg struct {
	ID        string
	Confirmed bool
}

type bindings struct {
	confirm bool
}

// Model is the delete confirmation dialog.
type Model struct {
	form   *huh.Form
	fb     *bindings
	id     string
	done   bool
	width  int
	height int
}

// New creates a confirmation dialog model.
func New(width, height int) Model {
	return Model{fb: &bindings{}, width: width, height: height}
}

// Start asks whether the named project should be deleted.
func (m *Model) Start(id, name string, taskCount int) tea.Cmd {
	m.id = id
	m.done = false
	m.fb.confirm = false

	desc := "The project has no tasks."
	if taskCount > 0 {
		desc = fmt.Sprintf("Its %d task(s) will be deleted with it.", taskCount)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", name)).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
	return m.form.Init()
}

// Update handles messages for the dialog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.done {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.done = true
		return m, ui.Emit(ResultMsg{ID: m.id, Confirmed: m.fb.confirm})
	case huh.StateAborted:
		m.done = true
		return m, ui.Emit(ResultMsg{ID: m.id})
	}
	return m, cmd
}

// View renders the dialog.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
}

// SetSize updates the dialog dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
