package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// OpenProjectMsg asks the root model to show one project in detail.
type OpenProjectMsg struct {
	ID string
}

// EditProjectMsg opens the project form. An empty ID creates a project.
type EditProjectMsg struct {
	ID string
}

// EditTaskMsg opens the task form. An empty TaskID adds a task.
type EditTaskMsg struct {
	ProjectID string
	TaskID    string
}

// ConfirmDeleteMsg asks the user before a project and its tasks are removed.
type ConfirmDeleteMsg struct {
	ID   string
	Name string
}

// BackMsg returns to the previous view.
type BackMsg struct{}

// NoticeMsg reports the outcome of a store mutation in the status bar.
type NoticeMsg struct {
	Text string
	Err  error
}

// Mutate runs fn as a command and reports success or failure as a NoticeMsg.
func Mutate(success string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return NoticeMsg{Text: fmt.Sprintf("Error: %v", err), Err: err}
		}
		return NoticeMsg{Text: success}
	}
}

// Emit wraps msg in a command.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
