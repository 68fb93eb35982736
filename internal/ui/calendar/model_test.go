package calendar

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/projectpilot/internal/keys"
	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/ui"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthGrid(t *testing.T) {
	// March 2024 starts on a Friday and has 31 days.
	weeks := MonthGrid(date(2024, time.March, 15))
	require.Len(t, weeks, 6)

	assert.True(t, weeks[0][4].IsZero())
	assert.Equal(t, 1, weeks[0][5].Day())
	assert.Equal(t, 2, weeks[0][6].Day())
	assert.Equal(t, 3, weeks[1][0].Day())
	assert.Equal(t, 31, weeks[5][0].Day())
	assert.True(t, weeks[5][1].IsZero())

	// February 2015 fills exactly four rows.
	assert.Len(t, MonthGrid(date(2015, time.February, 1)), 4)
}

func TestShiftMonthClampsDay(t *testing.T) {
	tests := []struct {
		from time.Time
		n    int
		want time.Time
	}{
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{date(2024, time.March, 15), -1, date(2024, time.February, 15)},
		{date(2024, time.January, 10), -1, date(2023, time.December, 10)},
		{date(2024, time.December, 31), 2, date(2025, time.February, 28)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShiftMonth(tt.from, tt.n), "%s %+d", tt.from.Format("2006-01-02"), tt.n)
	}
}

func newCalendar() Model {
	now := func() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }
	m := New(keys.DefaultKeyMap(), now, 120, 40)
	due := date(2024, time.March, 6)
	m.SetTasks([]model.DueTask{
		{ProjectID: "p1", ProjectName: "One", Task: model.Task{ID: "t1", Description: "ship", DueDate: &due}},
		{ProjectID: "p2", ProjectName: "Two", Task: model.Task{ID: "t2", Description: "review", DueDate: &due}},
	})
	return m
}

func TestNavigationAndDayTasks(t *testing.T) {
	m := newCalendar()
	assert.Equal(t, date(2024, time.March, 5), m.Selected())
	assert.Empty(t, m.DayTasks())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, date(2024, time.March, 6), m.Selected())
	require.Len(t, m.DayTasks(), 2)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.OpenProjectMsg{ID: "p1"}, cmd())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ui.OpenProjectMsg{ID: "p2"}, cmd())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, date(2024, time.March, 13), m.Selected())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Equal(t, date(2024, time.April, 13), m.Selected())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	assert.Equal(t, date(2024, time.March, 5), m.Selected())
}

func TestEnterOnEmptyDayDoesNothing(t *testing.T) {
	m := newCalendar()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestViewListsSelectedDay(t *testing.T) {
	m := newCalendar()
	m.Select(date(2024, time.March, 6))
	out := m.View()
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "ship")
	assert.Contains(t, out, "Two")
}
