package store

import (
	"time"

	"github.com/nhle/projectpilot/internal/model"
)

// Derived views are recomputed by a full linear scan of the snapshot on
// every call. There is no index and no cache.

// FilterByStatus returns the projects with the given status, in order.
func FilterByStatus(projects []model.Project, status model.Status) []model.Project {
	out := []model.Project{}
	for _, p := range projects {
		if p.Status == status {
			out = append(out, p.Clone())
		}
	}
	return out
}

// DueTasks flattens every task with a due date, in project order and then
// task order.
func DueTasks(projects []model.Project) []model.DueTask {
	out := []model.DueTask{}
	for _, p := range projects {
		for _, t := range p.Tasks {
			if t.DueDate == nil {
				continue
			}
			out = append(out, model.DueTask{
				ProjectID:   p.ID,
				ProjectName: p.Name,
				Task:        t.Clone(),
			})
		}
	}
	return out
}

// SearchProjects applies the dashboard filter.
func SearchProjects(projects []model.Project, f Filter) []model.Project {
	out := []model.Project{}
	for _, p := range projects {
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if !p.Matches(f.Query) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// GroupByDay indexes calendar rows by the YYYY-MM-DD key of their due date.
// Rows keep feed order within a day.
func GroupByDay(rows []model.DueTask) map[string][]model.DueTask {
	out := make(map[string][]model.DueTask)
	for _, r := range rows {
		key := r.Task.DueKey()
		if key == "" {
			continue
		}
		out[key] = append(out[key], r)
	}
	return out
}

// ComputeStats summarizes projects relative to now.
func ComputeStats(projects []model.Project, now time.Time) Stats {
	st := Stats{
		Projects: len(projects),
		ByStatus: make(map[model.Status]int, len(model.Statuses())),
	}
	for _, s := range model.Statuses() {
		st.ByStatus[s] = 0
	}
	for _, p := range projects {
		st.ByStatus[p.Status]++
		for _, t := range p.Tasks {
			st.Tasks++
			if t.Completed {
				st.CompletedTasks++
			}
			if t.DueDate != nil {
				st.DueTasks++
			}
			if t.IsOverdue(now) {
				st.OverdueTasks++
			}
		}
	}
	return st
}

// ByStatus returns the projects with the given status, preserving
// collection order.
func (s *MemoryStore) ByStatus(status model.Status) []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterByStatus(s.snap.Projects, status)
}

// TasksWithDueDate is the calendar feed: every task that has a due date,
// tagged with its project.
func (s *MemoryStore) TasksWithDueDate() []model.DueTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DueTasks(s.snap.Projects)
}

// Search returns the projects matching the dashboard filter.
func (s *MemoryStore) Search(f Filter) []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SearchProjects(s.snap.Projects, f)
}

// TasksOn returns the calendar rows whose due date falls on the same
// calendar day as day. Both dates are compared by their YYYY-MM-DD key.
func (s *MemoryStore) TasksOn(day time.Time) []model.DueTask {
	key := day.Format(model.DateKeyLayout)
	out := []model.DueTask{}
	for _, r := range s.TasksWithDueDate() {
		if r.Task.DueKey() == key {
			out = append(out, r)
		}
	}
	return out
}

// CalendarIndex groups the calendar feed by day.
func (s *MemoryStore) CalendarIndex() map[string][]model.DueTask {
	return GroupByDay(s.TasksWithDueDate())
}

// Stats summarizes the current snapshot.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.snap.Projects, s.now())
}
