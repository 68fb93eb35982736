package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/ui"
	"github.com/nhle/projectpilot/internal/ui/command"
	"github.com/nhle/projectpilot/internal/ui/projectform"
	"github.com/nhle/projectpilot/internal/ui/taskform"
)

func notFound(what, id string) tea.Cmd {
	err := fmt.Errorf("%s %s: %w", what, id, store.ErrNotFound)
	return ui.Emit(ui.NoticeMsg{Text: "Error: " + err.Error(), Err: err})
}

// openProject shows the project with id in the detail view.
func (m *Model) openProject(id string) tea.Cmd {
	p, ok := m.store.Get(id)
	if !ok {
		return notFound("project", id)
	}
	m.detail.SetProject(p)
	m.navigate(ViewDetail)
	return nil
}

// startProjectForm opens the create form, or the edit form when id is set.
func (m *Model) startProjectForm(id string) tea.Cmd {
	if id == "" {
		m.navigate(ViewProjectForm)
		return m.projectForm.StartCreate()
	}

	p, ok := m.store.Get(id)
	if !ok {
		return notFound("project", id)
	}
	m.navigate(ViewProjectForm)
	return m.projectForm.StartEdit(p)
}

// startTaskForm opens the add form, or the edit form when taskID is set.
func (m *Model) startTaskForm(projectID, taskID string) tea.Cmd {
	p, ok := m.store.Get(projectID)
	if !ok {
		return notFound("project", projectID)
	}

	if taskID == "" {
		m.navigate(ViewTaskForm)
		return m.taskForm.StartCreate(p)
	}

	i := p.TaskIndex(taskID)
	if i < 0 {
		return notFound("task", taskID)
	}
	m.navigate(ViewTaskForm)
	return m.taskForm.StartEdit(p, p.Tasks[i])
}

func (m *Model) startConfirmDelete(id, name string) tea.Cmd {
	p, ok := m.store.Get(id)
	if !ok {
		return notFound("project", id)
	}
	m.navigate(ViewConfirm)
	return m.confirm.Start(id, name, len(p.Tasks))
}

// deleteProject removes the project and its tasks, then returns to the
// dashboard.
func (m *Model) deleteProject(id string) tea.Cmd {
	m.home()
	s := m.store
	return ui.Mutate("Project deleted successfully", func() error {
		return s.Delete(id)
	})
}

func (m *Model) projectSaved(msg projectform.SavedMsg) tea.Cmd {
	m.back()
	if msg.Err != nil {
		return ui.Emit(ui.NoticeMsg{Text: "Error: " + msg.Err.Error(), Err: msg.Err})
	}

	text := "Project updated successfully"
	if msg.Created {
		text = "Project created successfully"
		m.detail.SetProject(msg.Project)
		m.navigate(ViewDetail)
	}
	return ui.Emit(ui.NoticeMsg{Text: text})
}

func (m *Model) taskSaved(msg taskform.SavedMsg) tea.Cmd {
	m.back()
	if msg.Err != nil {
		return ui.Emit(ui.NoticeMsg{Text: "Error: " + msg.Err.Error(), Err: msg.Err})
	}

	text := "Task updated successfully"
	if msg.Created {
		text = "Task added successfully"
	}
	return ui.Emit(ui.NoticeMsg{Text: text})
}

// executeCommand runs a command from the palette.
func (m *Model) executeCommand(c command.Command) tea.Cmd {
	switch c.Name {
	case "new":
		return m.startProjectForm("")
	case "dashboard":
		m.home()
	case "calendar":
		m.navigate(ViewCalendar)
	case "filter":
		if c.Arg == "all" {
			m.dashboard.SetStatusFilter(nil)
		} else {
			st, err := model.ParseStatus(c.Arg)
			if err != nil {
				return ui.Emit(ui.NoticeMsg{Text: "Error: " + err.Error(), Err: err})
			}
			m.dashboard.SetStatusFilter(&st)
		}
		m.home()
	case "search":
		m.dashboard.SetQuery(c.Arg)
		m.home()
	case "help":
		m.navigate(ViewHelp)
	case "quit":
		return tea.Quit
	}
	return nil
}
