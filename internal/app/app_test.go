package app

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/reminder"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/testutil"
	"github.com/nhle/projectpilot/internal/ui"
	"github.com/nhle/projectpilot/internal/ui/command"
	"github.com/nhle/projectpilot/internal/ui/confirm"
	"github.com/nhle/projectpilot/internal/ui/projectform"
	"github.com/nhle/projectpilot/internal/ui/taskform"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func esc() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

func newModel(t *testing.T, opts Options) (Model, *store.MemoryStore, *testutil.Clock) {
	t.Helper()
	s, clock := testutil.NewMemoryStore(t)
	opts.Now = clock.Now
	m := New(s, opts)
	t.Cleanup(m.Close)
	return m, s, clock
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got, cmd
}

func createProject(t *testing.T, s *store.MemoryStore, name string) model.Project {
	t.Helper()
	p, err := s.Create(model.ProjectInput{
		Name:   name,
		Status: model.StatusInProgress,
		Tasks: []model.Task{
			{Description: "ship it", DueDate: testutil.DatePtr(2024, time.January, 3)},
		},
	})
	require.NoError(t, err)
	return p
}

// deliver forwards the pending store snapshot to the model.
func deliver(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.feed.wait()()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	m, _ = send(t, m, snap)
	return m
}

func TestGlobalNavigationKeys(t *testing.T) {
	m, _, _ := newModel(t, Options{})
	assert.Equal(t, ViewDashboard, m.CurrentView())

	m, _ = send(t, m, runes("c"))
	assert.Equal(t, ViewCalendar, m.CurrentView())

	m, cmd := send(t, m, esc())
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	assert.Equal(t, ViewDashboard, m.CurrentView())

	m, _ = send(t, m, runes("?"))
	assert.Equal(t, ViewHelp, m.CurrentView())
	m, _ = send(t, m, runes("?"))
	assert.Equal(t, ViewDashboard, m.CurrentView())

	m, _ = send(t, m, runes(":"))
	assert.Equal(t, ViewCommand, m.CurrentView())
	m, _ = send(t, m, esc())
	assert.Equal(t, ViewDashboard, m.CurrentView())

	_, cmd = send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitKeyIgnoredWhileSearching(t *testing.T) {
	m, _, _ := newModel(t, Options{})

	m, _ = send(t, m, runes("/"))
	m, _ = send(t, m, runes("q"))
	assert.Equal(t, ViewDashboard, m.CurrentView())
	assert.Equal(t, "q", m.dashboard.Filter().Query)
}

func TestOpenProjectAndBack(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	p := createProject(t, s, "Pilot")

	m, cmd := send(t, m, ui.OpenProjectMsg{ID: p.ID})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewDetail, m.CurrentView())
	assert.Equal(t, p.ID, m.detail.ProjectID())

	m, _ = send(t, m, runes("c"))
	assert.Equal(t, ViewCalendar, m.CurrentView())
	m, _ = send(t, m, ui.BackMsg{})
	assert.Equal(t, ViewDetail, m.CurrentView())
	m, _ = send(t, m, ui.BackMsg{})
	assert.Equal(t, ViewDashboard, m.CurrentView())
}

func TestOpenUnknownProject(t *testing.T) {
	m, _, _ := newModel(t, Options{})

	m, cmd := send(t, m, ui.OpenProjectMsg{ID: "missing"})
	assert.Equal(t, ViewDashboard, m.CurrentView())
	require.NotNil(t, cmd)

	n, ok := cmd().(ui.NoticeMsg)
	require.True(t, ok)
	assert.True(t, errors.Is(n.Err, store.ErrNotFound))

	m, _ = send(t, m, n)
	assert.Equal(t, n, m.Notice())
}

func TestSnapshotsReachViews(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	assert.Empty(t, m.dashboard.Visible())

	createProject(t, s, "Pilot")
	m = deliver(t, m)
	assert.Len(t, m.dashboard.Visible(), 1)
	assert.Len(t, m.calendar.DayTasks(), 0)

	m.calendar.Select(testutil.Date(2024, time.January, 3))
	assert.Len(t, m.calendar.DayTasks(), 1)

	stale := store.Snapshot{Version: 0}
	m, _ = send(t, m, SnapshotMsg{Snapshot: stale})
	assert.Len(t, m.dashboard.Visible(), 1)
}

func TestDeletedProjectLeavesDetail(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	p := createProject(t, s, "Pilot")
	m = deliver(t, m)

	m, _ = send(t, m, ui.OpenProjectMsg{ID: p.ID})
	require.Equal(t, ViewDetail, m.CurrentView())

	require.NoError(t, s.Delete(p.ID))
	m = deliver(t, m)
	assert.Equal(t, ViewDashboard, m.CurrentView())
	assert.Empty(t, m.dashboard.Visible())
}

func TestConfirmDelete(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	p := createProject(t, s, "Pilot")

	m, _ = send(t, m, ui.OpenProjectMsg{ID: p.ID})
	m, _ = send(t, m, ui.ConfirmDeleteMsg{ID: p.ID, Name: p.Name})
	assert.Equal(t, ViewConfirm, m.CurrentView())

	m, _ = send(t, m, confirm.ResultMsg{ID: p.ID})
	assert.Equal(t, ViewDetail, m.CurrentView())
	_, ok := s.Get(p.ID)
	assert.True(t, ok)

	m, _ = send(t, m, ui.ConfirmDeleteMsg{ID: p.ID, Name: p.Name})
	m, cmd := send(t, m, confirm.ResultMsg{ID: p.ID, Confirmed: true})
	assert.Equal(t, ViewDashboard, m.CurrentView())
	require.NotNil(t, cmd)

	n, ok := cmd().(ui.NoticeMsg)
	require.True(t, ok)
	assert.NoError(t, n.Err)
	assert.Equal(t, "Project deleted successfully", n.Text)
	_, ok = s.Get(p.ID)
	assert.False(t, ok)
}

func TestEscCancelsForms(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	p := createProject(t, s, "Pilot")

	m, _ = send(t, m, ui.EditProjectMsg{})
	assert.Equal(t, ViewProjectForm, m.CurrentView())
	m, _ = send(t, m, esc())
	assert.Equal(t, ViewDashboard, m.CurrentView())

	m, _ = send(t, m, ui.OpenProjectMsg{ID: p.ID})
	m, _ = send(t, m, ui.EditTaskMsg{ProjectID: p.ID, TaskID: p.Tasks[0].ID})
	assert.Equal(t, ViewTaskForm, m.CurrentView())
	m, _ = send(t, m, esc())
	assert.Equal(t, ViewDetail, m.CurrentView())
}

func TestEditUnknownTask(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	p := createProject(t, s, "Pilot")

	m, cmd := send(t, m, ui.EditTaskMsg{ProjectID: p.ID, TaskID: "nope"})
	assert.Equal(t, ViewDashboard, m.CurrentView())
	require.NotNil(t, cmd)
	n := cmd().(ui.NoticeMsg)
	assert.ErrorIs(t, n.Err, store.ErrNotFound)
}

func TestProjectSavedOpensCreatedProject(t *testing.T) {
	m, s, _ := newModel(t, Options{})

	m, _ = send(t, m, ui.EditProjectMsg{})
	p := createProject(t, s, "Fresh")

	m, cmd := send(t, m, projectform.SavedMsg{Project: p, Created: true})
	assert.Equal(t, ViewDetail, m.CurrentView())
	assert.Equal(t, p.ID, m.detail.ProjectID())
	require.NotNil(t, cmd)
	assert.Equal(t, ui.NoticeMsg{Text: "Project created successfully"}, cmd())

	m, _ = send(t, m, ui.BackMsg{})
	assert.Equal(t, ViewDashboard, m.CurrentView())
}

func TestSaveErrorsBecomeNotices(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	p := createProject(t, s, "Pilot")
	boom := errors.New("boom")

	m, _ = send(t, m, ui.EditProjectMsg{ID: p.ID})
	m, cmd := send(t, m, projectform.SavedMsg{Err: boom})
	assert.Equal(t, ViewDashboard, m.CurrentView())
	n := cmd().(ui.NoticeMsg)
	assert.ErrorIs(t, n.Err, boom)
	assert.Equal(t, "Error: boom", n.Text)

	m, _ = send(t, m, ui.OpenProjectMsg{ID: p.ID})
	m, _ = send(t, m, ui.EditTaskMsg{ProjectID: p.ID})
	m, cmd = send(t, m, taskform.SavedMsg{ProjectID: p.ID, Created: true})
	assert.Equal(t, ViewDetail, m.CurrentView())
	assert.Equal(t, ui.NoticeMsg{Text: "Task added successfully"}, cmd())
}

func TestExecuteCommands(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	createProject(t, s, "Pilot")
	m = deliver(t, m)

	run := func(m Model, c command.Command) (Model, tea.Cmd) {
		m, _ = send(t, m, runes(":"))
		require.Equal(t, ViewCommand, m.CurrentView())
		return send(t, m, command.CommandMsg(c))
	}

	m, _ = run(m, command.Command{Name: "filter", Arg: "completed"})
	assert.Equal(t, ViewDashboard, m.CurrentView())
	require.NotNil(t, m.dashboard.Filter().Status)
	assert.Equal(t, model.StatusCompleted, *m.dashboard.Filter().Status)
	assert.Empty(t, m.dashboard.Visible())

	m, _ = run(m, command.Command{Name: "filter", Arg: "all"})
	assert.Nil(t, m.dashboard.Filter().Status)
	assert.Len(t, m.dashboard.Visible(), 1)

	m, cmd := run(m, command.Command{Name: "filter", Arg: "someday"})
	require.NotNil(t, cmd)
	assert.Error(t, cmd().(ui.NoticeMsg).Err)

	m, _ = run(m, command.Command{Name: "search", Arg: "pil"})
	assert.Equal(t, "pil", m.dashboard.Filter().Query)
	assert.Len(t, m.dashboard.Visible(), 1)

	m, _ = run(m, command.Command{Name: "calendar"})
	assert.Equal(t, ViewCalendar, m.CurrentView())

	m, _ = run(m, command.Command{Name: "help"})
	assert.Equal(t, ViewHelp, m.CurrentView())

	m, _ = run(m, command.Command{Name: "dashboard"})
	assert.Equal(t, ViewDashboard, m.CurrentView())

	m, _ = run(m, command.Command{Name: "new"})
	assert.Equal(t, ViewProjectForm, m.CurrentView())

	m, _ = send(t, m, esc())
	_, cmd = run(m, command.Command{Name: "quit"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHeaderShowsDigest(t *testing.T) {
	s, clock := testutil.NewMemoryStore(t)
	createProject(t, s, "Pilot")

	sched, err := reminder.New(s, model.RemindersConfig{Schedule: "@every 1h", Window: 48 * time.Hour},
		reminder.WithClock(clock.Now))
	require.NoError(t, err)

	m := New(s, Options{Reminders: sched, Now: clock.Now})
	t.Cleanup(m.Close)
	assert.Equal(t, "checking deadlines...", m.headerStatus())

	d := sched.RunNow()
	m, _ = send(t, m, reminder.DigestMsg{Digest: d})
	assert.Equal(t, d.Summary(), m.headerStatus())

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.Contains(t, m.View(), "ProjectPilot")
	assert.Contains(t, m.View(), d.Summary())
}

func TestHeaderWithoutReminders(t *testing.T) {
	m, s, _ := newModel(t, Options{})
	createProject(t, s, "Pilot")
	m = deliver(t, m)

	assert.Equal(t, "1 projects", m.headerStatus())
	assert.Equal(t, "Loading...", m.View())
}
