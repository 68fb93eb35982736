// Package calendar shows a month grid of task deadlines and the tasks due on
// the selected day.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/projectpilot/internal/keys"
	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/theme"
	"github.com/nhle/projectpilot/internal/ui"
)

const cellWidth = 5

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Model is the calendar view component.
type Model struct {
	keys     *keys.KeyMap
	now      func() time.Time
	selected time.Time
	index    map[string][]model.DueTask
	cursor   int
	width    int
	height   int
}

// New creates a calendar model positioned on today.
func New(k *keys.KeyMap, now func() time.Time, width, height int) Model {
	return Model{
		keys:     k,
		now:      now,
		selected: Day(now()),
		index:    map[string][]model.DueTask{},
		width:    width,
		height:   height,
	}
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

// MonthGrid returns the weeks of the month containing t, Sunday first.
// Cells outside the month are zero times.
func MonthGrid(t time.Time) [][7]time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	col := int(first.Weekday())

	var weeks [][7]time.Time
	var week [7]time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]time.Time{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// ShiftMonth moves t by n months, clamping the day to the target month's
// length so Jan 31 + 1 month is the last day of February.
func ShiftMonth(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), last)-1)
}

// SetTasks replaces the deadline feed.
func (m *Model) SetTasks(rows []model.DueTask) {
	m.index = store.GroupByDay(rows)
	m.clampCursor()
}

// Selected returns the highlighted day.
func (m Model) Selected() time.Time {
	return m.selected
}

// Select moves the highlight to day.
func (m *Model) Select(day time.Time) {
	m.selected = Day(day)
	m.cursor = 0
}

// DayTasks returns the tasks due on the selected day.
func (m Model) DayTasks() []model.DueTask {
	return m.index[m.selected.Format(model.DateKeyLayout)]
}

func (m *Model) clampCursor() {
	n := len(m.DayTasks())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, ui.Emit(ui.BackMsg{})
	case key.Matches(keyMsg, m.keys.Left):
		m.Select(m.selected.AddDate(0, 0, -1))
	case key.Matches(keyMsg, m.keys.Right):
		m.Select(m.selected.AddDate(0, 0, 1))
	case key.Matches(keyMsg, m.keys.Up):
		m.Select(m.selected.AddDate(0, 0, -7))
	case key.Matches(keyMsg, m.keys.Down):
		m.Select(m.selected.AddDate(0, 0, 7))
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.Select(ShiftMonth(m.selected, -1))
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.Select(ShiftMonth(m.selected, 1))
	case key.Matches(keyMsg, m.keys.Today):
		m.Select(m.now())
	case key.Matches(keyMsg, m.keys.CycleFilter):
		if n := len(m.DayTasks()); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case key.Matches(keyMsg, m.keys.Select):
		tasks := m.DayTasks()
		if len(tasks) == 0 {
			return m, nil
		}
		return m, ui.Emit(ui.OpenProjectMsg{ID: tasks[m.cursor].ProjectID})
	}
	return m, nil
}

// View renders the month grid above the selected day's tasks.
func (m Model) View() string {
	grid := m.renderGrid()
	day := m.renderDay()

	if m.width >= 7*cellWidth+60 {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", day))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, grid, "", day))
}

func (m Model) renderGrid() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Width(7 * cellWidth).
		Align(lipgloss.Center).
		Render(m.selected.Format("January 2006"))

	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)
	head := make([]string, len(weekdays))
	for i, w := range weekdays {
		head[i] = cell.Foreground(theme.ColorGray).Render(w)
	}

	rows := []string{title, strings.Join(head, "")}
	today := Day(m.now()).Format(model.DateKeyLayout)
	selected := m.selected.Format(model.DateKeyLayout)

	for _, week := range MonthGrid(m.selected) {
		cells := make([]string, 7)
		for i, d := range week {
			if d.IsZero() {
				cells[i] = cell.Render("")
				continue
			}
			k := d.Format(model.DateKeyLayout)
			label := fmt.Sprintf("%d", d.Day())
			style := cell
			if n := len(m.index[k]); n > 0 {
				label += "•"
				style = style.Inherit(theme.MarkedDayStyle)
			} else {
				label += " "
			}
			if k == today {
				style = style.Inherit(theme.TodayStyle)
			}
			if k == selected {
				style = style.Reverse(true)
			}
			cells[i] = style.Render(label)
		}
		rows = append(rows, strings.Join(cells, ""))
	}

	return theme.BorderStyle.Padding(0, 1).Render(strings.Join(rows, "\n"))
}

func (m Model) renderDay() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Due " + m.selected.Format("Mon, Jan 02 2006"))

	tasks := m.DayTasks()
	if len(tasks) == 0 {
		return header + "\n\n" + lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("Nothing due on this day.")
	}

	now := m.now()
	lines := []string{header, ""}
	for i, row := range tasks {
		check := "[ ]"
		desc := row.Task.Description
		if row.Task.Completed {
			check = "[x]"
			desc = theme.CompletedTaskStyle.Render(desc)
		} else if row.Task.IsOverdue(now) {
			desc = theme.OverdueStyle.Render(desc)
		}
		project := lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(row.ProjectName)
		line := fmt.Sprintf("%s %s  %s", check, desc, project)
		if i == m.cursor {
			lines = append(lines, theme.SelectedItemStyle.Render(line))
		} else {
			lines = append(lines, theme.ListItemStyle.Render(line))
		}
	}
	lines = append(lines, "", theme.HelpStyle.Render("tab next task · enter open project"))
	return strings.Join(lines, "\n")
}

// SetSize updates the calendar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
