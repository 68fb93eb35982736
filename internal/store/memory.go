package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/projectpilot/internal/idgen"
	"github.com/nhle/projectpilot/internal/model"
)

// maxIDAttempts bounds how many fresh identifiers are drawn before an
// insert gives up with ErrConflict.
const maxIDAttempts = 3

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithIDGenerator sets the identifier generator. The default is UUIDv7.
func WithIDGenerator(g idgen.Generator) Option {
	return func(s *MemoryStore) { s.ids = g }
}

// WithClock sets the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// WithLogger sets the logger for mutation events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *MemoryStore) { s.log = l }
}

// WithSeed sets the initial project collection. Projects are copied.
func WithSeed(projects []model.Project) Option {
	return func(s *MemoryStore) { s.seed = projects }
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// MemoryStore holds the project collection in memory. It implements
// ProjectStore and is safe for concurrent use: mutations are serialized and
// each one replaces the whole snapshot, so readers never observe a partial
// update.
type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot

	ids  idgen.Generator
	now  func() time.Time
	log  zerolog.Logger
	seed []model.Project

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int
}

var _ ProjectStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store. A seed that contains duplicate project
// IDs is rejected.
func NewMemoryStore(opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{
		ids: idgen.UUID{},
		now: func() time.Time { return time.Now().UTC() },
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	projects, err := s.prepareSeed(s.seed)
	if err != nil {
		return nil, err
	}
	s.seed = nil
	s.snap = Snapshot{Version: 1, Projects: projects}
	return s, nil
}

// Reset replaces the whole collection with the given projects and notifies
// subscribers. It is the startup hook for seed data.
func (s *MemoryStore) Reset(projects []model.Project) error {
	prepared, err := s.prepareSeed(projects)
	if err != nil {
		return err
	}

	s.mu.Lock()
	snap := s.commit(prepared)
	s.mu.Unlock()

	s.log.Info().Int("projects", len(prepared)).Msg("collection reset")
	s.notify(snap)
	return nil
}

func (s *MemoryStore) prepareSeed(projects []model.Project) ([]model.Project, error) {
	out := make([]model.Project, 0, len(projects))
	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		if p.ID == "" {
			return nil, fmt.Errorf("seed project %q has no id: %w", p.Name, ErrValidation)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("seed project id %s is duplicated: %w", p.ID, ErrConflict)
		}
		seen[p.ID] = true
		taskIDs := make(map[string]bool, len(p.Tasks))
		for _, t := range p.Tasks {
			if t.ID == "" {
				return nil, fmt.Errorf("seed task %q in project %s has no id: %w", t.Description, p.ID, ErrValidation)
			}
			if taskIDs[t.ID] {
				return nil, fmt.Errorf("seed task id %s in project %s is duplicated: %w", t.ID, p.ID, ErrConflict)
			}
			taskIDs[t.ID] = true
		}
		c := p.Clone()
		if c.Tasks == nil {
			c.Tasks = []model.Task{}
		}
		if c.TechStack == nil {
			c.TechStack = []string{}
		}
		out = append(out, c)
	}
	return out, nil
}

// Subscribe registers fn to be called with each new snapshot. Calls happen
// on the mutating goroutine after the store lock is released, so fn may read
// from the store. Under concurrent writers, deliveries can arrive out of
// order; compare Snapshot.Version to discard stale ones.
func (s *MemoryStore) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// commit installs a new collection. The caller must hold s.mu.
func (s *MemoryStore) commit(projects []model.Project) Snapshot {
	s.snap = Snapshot{Version: s.snap.Version + 1, Projects: projects}
	return s.snap
}

func (s *MemoryStore) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(cloneSnapshot(snap))
	}
}

// stamp returns the current time, forced strictly after prev.
func (s *MemoryStore) stamp(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// freshID draws identifiers until one is not taken.
func (s *MemoryStore) freshID(taken func(string) bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.NewID()
		if id != "" && !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique id after %d attempts: %w", maxIDAttempts, ErrConflict)
}

func indexOf(projects []model.Project, id string) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// replaceAt returns a copy of projects with position i set to p.
func replaceAt(projects []model.Project, i int, p model.Project) []model.Project {
	next := make([]model.Project, len(projects))
	copy(next, projects)
	next[i] = p
	return next
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("project name must not be empty: %w", ErrValidation)
	}
	return nil
}

func validateStatus(st model.Status) error {
	if !st.Valid() {
		return fmt.Errorf("unknown project status %q: %w", st, ErrValidation)
	}
	return nil
}

func validateDescription(desc string) error {
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("task description must not be empty: %w", ErrValidation)
	}
	return nil
}

// List returns every project in insertion order.
func (s *MemoryStore) List() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjects(s.snap.Projects)
}

// Get returns the project with the given ID. The boolean is false when no
// project matches; absence is not an error.
func (s *MemoryStore) Get(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.snap.Projects, id)
	if i < 0 {
		return model.Project{}, false
	}
	return s.snap.Projects[i].Clone(), true
}

// Snapshot returns a copy of the current snapshot.
func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snap)
}

// Create appends a new project. It assigns a fresh ID, sets CreatedAt and
// UpdatedAt to the same instant and defaults the status to planning. Tasks
// supplied in the input keep their fields; missing task IDs and creation
// times are filled in.
func (s *MemoryStore) Create(in model.ProjectInput) (model.Project, error) {
	if err := validateName(in.Name); err != nil {
		return model.Project{}, err
	}
	if in.Status == "" {
		in.Status = model.StatusPlanning
	}
	if err := validateStatus(in.Status); err != nil {
		return model.Project{}, err
	}

	s.mu.Lock()
	current := s.snap.Projects

	id, err := s.freshID(func(id string) bool { return indexOf(current, id) >= 0 })
	if err != nil {
		s.mu.Unlock()
		return model.Project{}, err
	}

	now := s.now()
	tasks, err := s.prepareTasks(in.Tasks, now)
	if err != nil {
		s.mu.Unlock()
		return model.Project{}, err
	}

	stack := []string{}
	if in.TechStack != nil {
		stack = append(stack, in.TechStack...)
	}

	p := model.ProjectPatch{
		GithubURL:            in.GithubURL,
		DeploymentURL:        in.DeploymentURL,
		StartDate:            in.StartDate,
		TargetCompletionDate: in.TargetCompletionDate,
	}.Apply(model.Project{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		TechStack:   stack,
		Tasks:       tasks,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	next := make([]model.Project, len(current), len(current)+1)
	copy(next, current)
	next = append(next, p)
	snap := s.commit(next)
	s.mu.Unlock()

	s.log.Info().Str("project", id).Str("name", p.Name).Msg("project created")
	s.notify(snap)
	return p.Clone(), nil
}

func (s *MemoryStore) prepareTasks(in []model.Task, now time.Time) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		if t.ID != "" {
			if seen[t.ID] {
				return nil, fmt.Errorf("task id %s is duplicated: %w", t.ID, ErrConflict)
			}
			seen[t.ID] = true
		}
	}
	for _, t := range in {
		t = t.Clone()
		if t.ID == "" {
			id, err := s.freshID(func(id string) bool { return seen[id] })
			if err != nil {
				return nil, err
			}
			seen[id] = true
			t.ID = id
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Update merges the patch into the project and refreshes UpdatedAt.
func (s *MemoryStore) Update(id string, patch model.ProjectPatch) (model.Project, error) {
	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return model.Project{}, err
		}
	}
	if patch.Status != nil {
		if err := validateStatus(*patch.Status); err != nil {
			return model.Project{}, err
		}
	}

	s.mu.Lock()
	i := indexOf(s.snap.Projects, id)
	if i < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("project", id).Msg("update of unknown project")
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	p := patch.Apply(s.snap.Projects[i])
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	p.UpdatedAt = s.stamp(p.UpdatedAt)
	snap := s.commit(replaceAt(s.snap.Projects, i, p))
	s.mu.Unlock()

	s.log.Debug().Str("project", id).Msg("project updated")
	s.notify(snap)
	return p.Clone(), nil
}

// Delete removes the project together with all of its tasks in a single
// step; no task outlives its project.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	current := s.snap.Projects
	i := indexOf(current, id)
	if i < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("project", id).Msg("delete of unknown project")
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	removed := len(current[i].Tasks)
	next := make([]model.Project, 0, len(current)-1)
	next = append(next, current[:i]...)
	next = append(next, current[i+1:]...)
	snap := s.commit(next)
	s.mu.Unlock()

	s.log.Info().Str("project", id).Int("tasks", removed).Msg("project deleted")
	s.notify(snap)
	return nil
}

// AddTask appends a new task to the project and refreshes its UpdatedAt.
func (s *MemoryStore) AddTask(projectID string, in model.TaskInput) (model.Task, error) {
	if err := validateDescription(in.Description); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	i := indexOf(s.snap.Projects, projectID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("project", projectID).Msg("task change in unknown project")
		return model.Task{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	p := s.snap.Projects[i]

	taskID, err := s.freshID(func(id string) bool { return p.TaskIndex(id) >= 0 })
	if err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}

	t := model.TaskPatch{DueDate: in.DueDate}.Apply(model.Task{
		ID:          taskID,
		Description: in.Description,
		Completed:   in.Completed,
	})
	t.CreatedAt = s.now()

	tasks := make([]model.Task, len(p.Tasks), len(p.Tasks)+1)
	copy(tasks, p.Tasks)
	p.Tasks = append(tasks, t)
	p.UpdatedAt = s.stamp(p.UpdatedAt)
	snap := s.commit(replaceAt(s.snap.Projects, i, p))
	s.mu.Unlock()

	s.log.Debug().Str("project", projectID).Str("task", taskID).Msg("task added")
	s.notify(snap)
	return t.Clone(), nil
}

// UpdateTask merges the patch into the task and refreshes the owning
// project's UpdatedAt.
func (s *MemoryStore) UpdateTask(projectID, taskID string, patch model.TaskPatch) (model.Task, error) {
	if patch.Description != nil {
		if err := validateDescription(*patch.Description); err != nil {
			return model.Task{}, err
		}
	}

	s.mu.Lock()
	i := indexOf(s.snap.Projects, projectID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("project", projectID).Msg("task change in unknown project")
		return model.Task{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	p := s.snap.Projects[i]
	j := p.TaskIndex(taskID)
	if j < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("project", projectID).Str("task", taskID).Msg("update of unknown task")
		return model.Task{}, fmt.Errorf("task %s in project %s: %w", taskID, projectID, ErrNotFound)
	}

	tasks := make([]model.Task, len(p.Tasks))
	copy(tasks, p.Tasks)
	t := patch.Apply(tasks[j])
	tasks[j] = t
	p.Tasks = tasks
	p.UpdatedAt = s.stamp(p.UpdatedAt)
	snap := s.commit(replaceAt(s.snap.Projects, i, p))
	s.mu.Unlock()

	s.log.Debug().Str("project", projectID).Str("task", taskID).Msg("task updated")
	s.notify(snap)
	return t.Clone(), nil
}

// DeleteTask removes the task from its project and refreshes the project's
// UpdatedAt.
func (s *MemoryStore) DeleteTask(projectID, taskID string) error {
	s.mu.Lock()
	i := indexOf(s.snap.Projects, projectID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("project", projectID).Msg("task change in unknown project")
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	p := s.snap.Projects[i]
	j := p.TaskIndex(taskID)
	if j < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("project", projectID).Str("task", taskID).Msg("delete of unknown task")
		return fmt.Errorf("task %s in project %s: %w", taskID, projectID, ErrNotFound)
	}

	tasks := make([]model.Task, 0, len(p.Tasks)-1)
	tasks = append(tasks, p.Tasks[:j]...)
	tasks = append(tasks, p.Tasks[j+1:]...)
	p.Tasks = tasks
	p.UpdatedAt = s.stamp(p.UpdatedAt)
	snap := s.commit(replaceAt(s.snap.Projects, i, p))
	s.mu.Unlock()

	s.log.Debug().Str("project", projectID).Str("task", taskID).Msg("task deleted")
	s.notify(snap)
	return nil
}

func cloneProjects(projects []model.Project) []model.Project {
	out := make([]model.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}

func cloneSnapshot(snap Snapshot) Snapshot {
	return Snapshot{Version: snap.Version, Projects: cloneProjects(snap.Projects)}
}
