package store

import (
	"errors"
	"time"

	"github.com/nhle/projectpilot/internal/model"
)

// Errors returned by store operations. Callers match them with errors.Is.
var (
	// ErrNotFound means a project or task ID did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrValidation means required fields were missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means an identifier collided with an existing entity.
	ErrConflict = errors.New("conflict")
)

// Snapshot is the full project collection at a point in time. Every
// mutation produces a new snapshot with a higher Version; observers detect
// change by comparing versions.
type Snapshot struct {
	Version  uint64
	Projects []model.Project
}

// Filter selects projects for the dashboard.
type Filter struct {
	// Status restricts results to one status. Nil means all statuses.
	Status *model.Status

	// Query is matched case-insensitively against name, description and
	// tech tags. Empty matches everything.
	Query string
}

// Stats summarizes a snapshot.
type Stats struct {
	Projects       int                  `json:"projects"`
	ByStatus       map[model.Status]int `json:"byStatus"`
	Tasks          int                  `json:"tasks"`
	CompletedTasks int                  `json:"completedTasks"`
	DueTasks       int                  `json:"dueTasks"`
	OverdueTasks   int                  `json:"overdueTasks"`
}

// Reader exposes the read side of the project collection. All results are
// copies; mutating them does not affect the store.
type Reader interface {
	List() []model.Project
	Get(id string) (model.Project, bool)
	ByStatus(status model.Status) []model.Project
	TasksWithDueDate() []model.DueTask
	Search(f Filter) []model.Project
	TasksOn(day time.Time) []model.DueTask
	CalendarIndex() map[string][]model.DueTask
	Stats() Stats
	Snapshot() Snapshot
}

// Writer exposes the mutations. Each successful call replaces the snapshot
// and notifies subscribers.
type Writer interface {
	Create(in model.ProjectInput) (model.Project, error)
	Update(id string, patch model.ProjectPatch) (model.Project, error)
	Delete(id string) error
	AddTask(projectID string, in model.TaskInput) (model.Task, error)
	UpdateTask(projectID, taskID string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(projectID, taskID string) error
}

// ProjectStore is the single owner of the project collection. Surfaces
// read and write only through it.
type ProjectStore interface {
	Reader
	Writer

	// Subscribe registers fn to receive every new snapshot. The returned
	// function removes the subscription.
	Subscribe(fn func(Snapshot)) (cancel func())
}
