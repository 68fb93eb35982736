package reminder

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nhle/projectpilot/internal/model"
)

// Digest lists the open tasks that need attention at a point in time.
type Digest struct {
	At      time.Time
	Window  time.Duration
	Overdue []model.DueTask
	DueSoon []model.DueTask
}

// Empty reports whether nothing is overdue or due soon.
func (d Digest) Empty() bool {
	return len(d.Overdue) == 0 && len(d.DueSoon) == 0
}

// Summary renders the digest as a single status line.
func (d Digest) Summary() string {
	if d.Empty() {
		return "No upcoming deadlines"
	}
	var parts []string
	if n := len(d.Overdue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", n))
	}
	if n := len(d.DueSoon); n > 0 {
		parts = append(parts, fmt.Sprintf("%d due within %s", n, formatWindow(d.Window)))
	}
	return strings.Join(parts, ", ")
}

// BuildDigest splits the calendar feed into overdue and soon-due open tasks.
// A task is overdue when its deadline is before now and due soon when it
// falls in [now, now+window). Completed tasks are ignored. Both lists are
// ordered by deadline, ties keeping feed order.
func BuildDigest(rows []model.DueTask, now time.Time, window time.Duration) Digest {
	d := Digest{
		At:      now,
		Window:  window,
		Overdue: []model.DueTask{},
		DueSoon: []model.DueTask{},
	}
	horizon := now.Add(window)
	for _, r := range rows {
		t := r.Task
		if t.Completed || t.DueDate == nil {
			continue
		}
		switch {
		case t.DueDate.Before(now):
			d.Overdue = append(d.Overdue, r)
		case t.DueDate.Before(horizon):
			d.DueSoon = append(d.DueSoon, r)
		}
	}

	byDue := func(a, b model.DueTask) int { return a.Task.DueDate.Compare(*b.Task.DueDate) }
	slices.SortStableFunc(d.Overdue, byDue)
	slices.SortStableFunc(d.DueSoon, byDue)
	return d
}

func formatWindow(w time.Duration) string {
	if w > 0 && w%time.Hour == 0 {
		return fmt.Sprintf("%dh", w/time.Hour)
	}
	return w.String()
}
