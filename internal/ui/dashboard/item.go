package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/theme"
)

// maxTags caps how many tech tags fit on a dashboard row.
const maxTags = 3

// ProjectItem wraps a model.Project so it can be used in a bubbles/list.
type ProjectItem struct {
	Project model.Project
}

// FilterValue returns the string used for fuzzy filtering.
func (i ProjectItem) FilterValue() string { return i.Project.Name }

// Title returns the project name for the list.
func (i ProjectItem) Title() string { return i.Project.Name }

// Description returns a short summary line for the list.
func (i ProjectItem) Description() string {
	done, total, _ := i.Project.Progress()
	return fmt.Sprintf("%s | %d/%d tasks", i.Project.Status.Label(), done, total)
}

// ProjectDelegate implements list.ItemDelegate for project rows.
type ProjectDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ProjectDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ProjectDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ProjectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws one project as a name line and a progress line.
func (d ProjectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(ProjectItem)
	if !ok {
		return
	}
	p := pi.Project
	isSelected := index == m.Index()

	statusBadge := theme.StatusStyle(p.Status).Render(p.Status.Label())
	name := lipgloss.NewStyle().Bold(true).Render(p.Name)

	tags := ""
	if len(p.TechStack) > 0 {
		shown := p.TechStack
		if len(shown) > maxTags {
			shown = append(append([]string{}, shown[:maxTags]...), "…")
		}
		tags = " " + theme.TagStyle.Render(strings.Join(shown, " · "))
	}

	done, total, percent := p.Progress()
	progress := fmt.Sprintf("%s  %d/%d tasks", theme.ProgressBar(percent, 20), done, total)

	if n := overdueCount(p, d.now()); n > 0 {
		progress += theme.OverdueStyle.Render(fmt.Sprintf("  %d overdue", n))
	}
	if p.TargetCompletionDate != nil {
		progress += lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("  target " + p.TargetCompletionDate.Format("Jan 02 2006"))
	}

	line := lipgloss.JoinVertical(
		lipgloss.Left,
		fmt.Sprintf("%s %s%s", name, statusBadge, tags),
		progress,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func overdueCount(p model.Project, now time.Time) int {
	n := 0
	for _, t := range p.Tasks {
		if t.IsOverdue(now) {
			n++
		}
	}
	return n
}
