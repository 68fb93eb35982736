// Package taskform adds and edits the tasks of one project.
package taskform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/theme"
	"github.com/nhle/projectpilot/internal/ui"
)

// SavedMsg reports the result of submitting the form.
type SavedMsg struct {
	ProjectID string
	Task      model.Task
	Created   bool
	Err       error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	description string
	dueDate     string
	completed   bool
}

// Model is the Bubble Tea model for the task add/edit form.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	store       store.Writer
	projectID   string
	projectName string
	editID      string
	submitted   bool
	width       int
	height      int
}

// New creates a new task form model.
func New(s store.Writer, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		store:  s,
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new task in project p.
func (m *Model) StartCreate(p model.Project) tea.Cmd {
	m.projectID = p.ID
	m.projectName = p.Name
	m.editID = ""
	m.submitted = false
	*m.fb = formBindings{}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with the fields of task t in project p.
func (m *Model) StartEdit(p model.Project, t model.Task) tea.Cmd {
	m.projectID = p.ID
	m.projectName = p.Name
	m.editID = t.ID
	m.submitted = false
	*m.fb = formBindings{
		description: t.Description,
		dueDate:     ui.DateValue(t.DueDate),
		completed:   t.Completed,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitted {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitted = true
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, ui.Emit(ui.BackMsg{})
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task · " + m.projectName
	if m.editID != "" {
		titleText = "Edit Task · " + m.projectName
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(ui.FormWidth(width)).WithHeight(ui.FormHeight(height))
	}
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Description").
			Placeholder("What needs to be done?").
			Value(&m.fb.description).
			Validate(ui.ValidateRequired("Description")),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(ui.ValidateOptionalDate),
	}
	if m.editID != "" {
		fields = append(fields,
			huh.NewConfirm().
				Title("Completed").
				Affirmative("Done").
				Negative("Open").
				Value(&m.fb.completed),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

// submit writes the form to the store.
func (m Model) submit() tea.Cmd {
	fb := *m.fb
	s := m.store
	projectID, editID := m.projectID, m.editID

	return func() tea.Msg {
		due, err := model.ParseOptionalDate(fb.dueDate)
		if err != nil {
			return SavedMsg{ProjectID: projectID, Created: editID == "", Err: err}
		}
		desc := strings.TrimSpace(fb.description)

		if editID == "" {
			t, err := s.AddTask(projectID, model.TaskInput{Description: desc, DueDate: due})
			return SavedMsg{ProjectID: projectID, Task: t, Created: true, Err: err}
		}

		t, err := s.UpdateTask(projectID, editID, model.TaskPatch{
			Description:  &desc,
			Completed:    &fb.completed,
			DueDate:      due,
			ClearDueDate: due == nil,
		})
		return SavedMsg{ProjectID: projectID, Task: t, Err: err}
	}
}
