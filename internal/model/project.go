package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle label of a project. Any status may move to any
// other; there is no transition graph.
type Status string

// Project status constants.
const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in-progress"
	StatusOnHold     Status = "on-hold"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

var statusLabels = map[Status]string{
	StatusPlanning:   "Planning",
	StatusInProgress: "In Progress",
	StatusOnHold:     "On Hold",
	StatusCompleted:  "Completed",
	StatusArchived:   "Archived",
}

// Statuses returns every project status in display order.
func Statuses() []Status {
	return []Status{
		StatusPlanning,
		StatusInProgress,
		StatusOnHold,
		StatusCompleted,
		StatusArchived,
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable form of the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus converts a raw string into a Status. Matching ignores case and
// accepts spaces or underscores in place of the hyphen ("in progress").
func ParseStatus(raw string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	s := Status(norm)
	if !s.Valid() {
		return "", fmt.Errorf("unknown project status %q", raw)
	}
	return s, nil
}

// Project is a tracked unit of work owning an ordered list of tasks.
type Project struct {
	ID                   string     `json:"id" yaml:"id" db:"id"`
	Name                 string     `json:"name" yaml:"name" db:"name"`
	Description          string     `json:"description" yaml:"description" db:"description"`
	Status               Status     `json:"status" yaml:"status" db:"status"`
	TechStack            []string   `json:"techStack" yaml:"tech_stack" db:"-"`
	GithubURL            *string    `json:"githubUrl,omitempty" yaml:"github_url,omitempty" db:"github_url"`
	DeploymentURL        *string    `json:"deploymentUrl,omitempty" yaml:"deployment_url,omitempty" db:"deployment_url"`
	StartDate            *time.Time `json:"startDate,omitempty" yaml:"start_date,omitempty" db:"start_date"`
	TargetCompletionDate *time.Time `json:"targetCompletionDate,omitempty" yaml:"target_completion_date,omitempty" db:"target_completion_date"`
	Tasks                []Task     `json:"tasks" yaml:"tasks" db:"-"`
	CreatedAt            time.Time  `json:"createdAt" yaml:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" yaml:"updated_at" db:"updated_at"`
}

// Clone returns a deep copy of p. Snapshots hand out clones so that callers
// can never reach the store's own slices and pointers.
func (p Project) Clone() Project {
	c := p
	if p.TechStack != nil {
		c.TechStack = append([]string{}, p.TechStack...)
	}
	c.GithubURL = cloneString(p.GithubURL)
	c.DeploymentURL = cloneString(p.DeploymentURL)
	c.StartDate = cloneTime(p.StartDate)
	c.TargetCompletionDate = cloneTime(p.TargetCompletionDate)
	if p.Tasks != nil {
		c.Tasks = make([]Task, len(p.Tasks))
		for i, t := range p.Tasks {
			c.Tasks[i] = t.Clone()
		}
	}
	return c
}

// TaskIndex returns the position of the task with the given ID, or -1.
func (p Project) TaskIndex(taskID string) int {
	for i, t := range p.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// Progress returns the number of completed tasks, the total, and the
// completion percentage rounded down. A project without tasks is at 0%.
func (p Project) Progress() (done, total, percent int) {
	total = len(p.Tasks)
	for _, t := range p.Tasks {
		if t.Completed {
			done++
		}
	}
	if total > 0 {
		percent = done * 100 / total
	}
	return done, total, percent
}

// Matches reports whether the project name, description or any tech tag
// contains query, ignoring case. An empty query matches everything.
func (p Project) Matches(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tech := range p.TechStack {
		if strings.Contains(strings.ToLower(tech), q) {
			return true
		}
	}
	return false
}

// ProjectInput carries the caller-supplied fields of a new project.
// Tasks may be nil, in which case the project starts with no tasks.
type ProjectInput struct {
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	Status               Status     `json:"status"`
	TechStack            []string   `json:"techStack"`
	GithubURL            *string    `json:"githubUrl,omitempty"`
	DeploymentURL        *string    `json:"deploymentUrl,omitempty"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	TargetCompletionDate *time.Time `json:"targetCompletionDate,omitempty"`
	Tasks                []Task     `json:"tasks,omitempty"`
}

// ProjectPatch is a partial update. Nil fields are left unchanged; the
// Clear* flags remove an optional value.
type ProjectPatch struct {
	Name                 *string    `json:"name,omitempty"`
	Description          *string    `json:"description,omitempty"`
	Status               *Status    `json:"status,omitempty"`
	TechStack            *[]string  `json:"techStack,omitempty"`
	GithubURL            *string    `json:"githubUrl,omitempty"`
	DeploymentURL        *string    `json:"deploymentUrl,omitempty"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	TargetCompletionDate *time.Time `json:"targetCompletionDate,omitempty"`

	ClearGithubURL            bool `json:"clearGithubUrl,omitempty"`
	ClearDeploymentURL        bool `json:"clearDeploymentUrl,omitempty"`
	ClearStartDate            bool `json:"clearStartDate,omitempty"`
	ClearTargetCompletionDate bool `json:"clearTargetCompletionDate,omitempty"`
}

// Apply merges the patch into p and returns the result. UpdatedAt is left
// to the caller.
func (pp ProjectPatch) Apply(p Project) Project {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.TechStack != nil {
		p.TechStack = append([]string{}, (*pp.TechStack)...)
	}
	if pp.GithubURL != nil {
		p.GithubURL = cloneString(pp.GithubURL)
	}
	if pp.DeploymentURL != nil {
		p.DeploymentURL = cloneString(pp.DeploymentURL)
	}
	if pp.StartDate != nil {
		p.StartDate = cloneTime(pp.StartDate)
	}
	if pp.TargetCompletionDate != nil {
		p.TargetCompletionDate = cloneTime(pp.TargetCompletionDate)
	}
	if pp.ClearGithubURL {
		p.GithubURL = nil
	}
	if pp.ClearDeploymentURL {
		p.DeploymentURL = nil
	}
	if pp.ClearStartDate {
		p.StartDate = nil
	}
	if pp.ClearTargetCompletionDate {
		p.TargetCompletionDate = nil
	}
	return p
}

// NormalizeTechStack trims tags, drops empty ones and removes duplicates,
// keeping the first occurrence. Forms use it; the store stores tags as given.
func NormalizeTechStack(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
