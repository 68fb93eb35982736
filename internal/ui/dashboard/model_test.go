package dashboard

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

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func names(ps []model.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func newDashboard(t *testing.T) Model {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	m := New(keys.DefaultKeyMap(), now, 100, 40)
	m.SetProjects([]model.Project{
		{ID: "a", Name: "Alpha", Status: model.StatusPlanning, TechStack: []string{"Go"}},
		{ID: "b", Name: "Beta", Status: model.StatusInProgress, Description: "uses react"},
		{ID: "c", Name: "Gamma", Status: model.StatusPlanning},
	})
	return m
}

func TestStatusFilterCycle(t *testing.T) {
	m := newDashboard(t)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names(m.Visible()))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, m.Filter().Status)
	assert.Equal(t, model.StatusPlanning, *m.Filter().Status)
	assert.Equal(t, []string{"Alpha", "Gamma"}, names(m.Visible()))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, []string{"Beta"}, names(m.Visible()))

	// planning, in-progress, on-hold, completed, archived, back to all
	for range 4 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Nil(t, m.Filter().Status)
	assert.Len(t, m.Visible(), 3)
}

func TestSearchFollowsInput(t *testing.T) {
	m := newDashboard(t)

	m, _ = m.Update(runes("/"))
	require.True(t, m.Searching())

	m, _ = m.Update(runes("react"))
	assert.Equal(t, []string{"Beta"}, names(m.Visible()))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Searching())
	assert.Equal(t, "react", m.Filter().Query)

	m, _ = m.Update(runes("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.Filter().Query)
	assert.Len(t, m.Visible(), 3)
}

func TestSnapshotKeepsFilter(t *testing.T) {
	m := newDashboard(t)
	st := model.StatusPlanning
	m.SetStatusFilter(&st)

	m.SetProjects([]model.Project{
		{ID: "a", Name: "Alpha", Status: model.StatusCompleted},
		{ID: "d", Name: "Delta", Status: model.StatusPlanning},
	})
	assert.Equal(t, []string{"Delta"}, names(m.Visible()))
}

func TestActionKeysEmitNavigation(t *testing.T) {
	m := newDashboard(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ui.OpenProjectMsg{ID: "a"}, cmd())

	_, cmd = m.Update(runes("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.EditProjectMsg{}, cmd())

	_, cmd = m.Update(runes("e"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.EditProjectMsg{ID: "a"}, cmd())

	_, cmd = m.Update(runes("D"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.ConfirmDeleteMsg{ID: "a", Name: "Alpha"}, cmd())
}

func TestEmptyDashboardHasNoSelection(t *testing.T) {
	m := New(keys.DefaultKeyMap(), time.Now, 80, 20)
	m.SetProjects(nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No projects yet")
}
