package model

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout formats the calendar day of a due date.
const DateKeyLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD as local midnight, or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateKeyLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseOptionalDate is ParseDate that maps a blank string to nil.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Task is a unit of actionable work owned by exactly one project.
type Task struct {
	// ID is unique within the owning project's task list.
	ID string `json:"id" yaml:"id" db:"id"`

	// Description is the free-text label shown in task lists.
	Description string `json:"description" yaml:"description" db:"description"`

	// Completed marks the task as done.
	Completed bool `json:"completed" yaml:"completed" db:"completed"`

	// DueDate is the optional deadline. Nil means no deadline.
	DueDate *time.Time `json:"dueDate,omitempty" yaml:"due_date,omitempty" db:"due_date"`

	// CreatedAt is set once when the task is added.
	CreatedAt time.Time `json:"createdAt" yaml:"created_at" db:"created_at"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	t.DueDate = cloneTime(t.DueDate)
	return t
}

// DueKey returns the YYYY-MM-DD key of the due date in its own location,
// or "" when the task has no deadline.
func (t Task) DueKey() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateKeyLayout)
}

// IsOverdue reports whether an open task's deadline lies before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// TaskInput carries the caller-supplied fields of a new task.
type TaskInput struct {
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Description  *string    `json:"description,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClearDueDate bool       `json:"clearDueDate,omitempty"`
}

// Apply merges the patch into t and returns the result.
func (tp TaskPatch) Apply(t Task) Task {
	if tp.Description != nil {
		t.Description = *tp.Description
	}
	if tp.Completed != nil {
		t.Completed = *tp.Completed
	}
	if tp.DueDate != nil {
		t.DueDate = cloneTime(tp.DueDate)
	}
	if tp.ClearDueDate {
		t.DueDate = nil
	}
	return t
}

// DueTask is one row of the calendar feed: a task with a deadline together
// with the project it belongs to.
type DueTask struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Task        Task   `json:"task"`
}
