package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/projectpilot/internal/keys"
	"github.com/nhle/projectpilot/internal/reminder"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/theme"
	"github.com/nhle/projectpilot/internal/ui"
	"github.com/nhle/projectpilot/internal/ui/calendar"
	"github.com/nhle/projectpilot/internal/ui/command"
	"github.com/nhle/projectpilot/internal/ui/confirm"
	"github.com/nhle/projectpilot/internal/ui/dashboard"
	"github.com/nhle/projectpilot/internal/ui/detail"
	helpview "github.com/nhle/projectpilot/internal/ui/help"
	"github.com/nhle/projectpilot/internal/ui/projectform"
	"github.com/nhle/projectpilot/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewDetail
	ViewProjectForm
	ViewTaskForm
	ViewConfirm
	ViewCalendar
	ViewHelp
	ViewCommand
)

// Options carries the optional collaborators of the root model.
type Options struct {
	// Reminders delivers deadline digests to the header. Nil disables them.
	Reminders *reminder.Scheduler

	// Now is the clock used for overdue markers. Defaults to time.Now.
	Now func() time.Time

	Log zerolog.Logger
}

// Model is the root Bubble Tea model that manages view routing, layout and
// access to the project store.
type Model struct {
	currentView ViewState
	history     []ViewState
	layout      ui.Layout
	store       store.ProjectStore
	feed        *snapshotFeed
	snap        store.Snapshot
	reminders   *reminder.Scheduler
	digest      *reminder.Digest
	keys        *keys.KeyMap
	log         zerolog.Logger
	notice      ui.NoticeMsg

	dashboard   dashboard.Model
	detail      detail.Model
	projectForm projectform.Model
	taskForm    taskform.Model
	confirm     confirm.Model
	calendar    calendar.Model
	helpView    helpview.Model
	commandView command.Model

	ready bool
}

// New creates the root model. It subscribes to st immediately; call Close
// when the program exits.
func New(st store.ProjectStore, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewDashboard,
		store:       st,
		feed:        subscribe(st),
		reminders:   opts.Reminders,
		keys:        k,
		log:         opts.Log,
		dashboard:   dashboard.New(k, now, 80, 24),
		detail:      detail.New(st, k, now, 80, 24),
		projectForm: projectform.New(st, 80, 24),
		taskForm:    taskform.New(st, 80, 24),
		confirm:     confirm.New(80, 24),
		calendar:    calendar.New(k, now, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
	m.applySnapshot(st.Snapshot())
	return m
}

// Init starts listening for snapshots and reminder digests.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.feed.wait()}
	if m.reminders != nil {
		cmds = append(cmds, m.reminders.Start())
	}
	return tea.Batch(cmds...)
}

// Close releases the store subscription and stops the reminder job.
func (m Model) Close() {
	m.feed.close()
	if m.reminders != nil {
		m.reminders.Stop()
	}
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Notice returns the status bar message.
func (m Model) Notice() ui.NoticeMsg {
	return m.notice
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.projectForm.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.confirm.SetSize(w, h)
		m.calendar.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case SnapshotMsg:
		if msg.Snapshot.Version > m.snap.Version {
			m.applySnapshot(msg.Snapshot)
		}
		return m, m.feed.wait()

	case reminder.DigestMsg:
		d := msg.Digest
		m.digest = &d
		return m, m.reminders.WaitForDigest()

	case ui.NoticeMsg:
		m.notice = msg
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg("action failed")
		}
		return m, nil

	case ui.OpenProjectMsg:
		return m, m.openProject(msg.ID)

	case ui.EditProjectMsg:
		return m, m.startProjectForm(msg.ID)

	case ui.EditTaskMsg:
		return m, m.startTaskForm(msg.ProjectID, msg.TaskID)

	case ui.ConfirmDeleteMsg:
		return m, m.startConfirmDelete(msg.ID, msg.Name)

	case confirm.ResultMsg:
		if !msg.Confirmed {
			m.back()
			return m, nil
		}
		return m, m.deleteProject(msg.ID)

	case projectform.SavedMsg:
		return m, m.projectSaved(msg)

	case taskform.SavedMsg:
		return m, m.taskSaved(msg)

	case ui.BackMsg:
		m.back()
		return m, nil

	case command.CommandMsg:
		m.back()
		return m, m.executeCommand(command.Command(msg))

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work across views. It reports
// whether the key was consumed.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	m.notice = ui.NoticeMsg{}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewProjectForm, ViewTaskForm, ViewConfirm:
		if key.Matches(msg, m.keys.Back) {
			m.back()
			return m, nil, true
		}
		return m, nil, false

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Command) {
			m.back()
			return m, nil, true
		}
		return m, nil, false

	case ViewHelp:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Help) {
			m.back()
			return m, nil, true
		}
	}

	if m.currentView == ViewDashboard && m.dashboard.Searching() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewDashboard {
			return m, tea.Quit, true
		}

	case key.Matches(msg, m.keys.Help):
		m.navigate(ViewHelp)
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.navigate(ViewCommand)
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Calendar):
		if m.currentView != ViewCalendar {
			m.navigate(ViewCalendar)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Dashboard):
		m.home()
		return m, nil, true
	}

	return m, nil, false
}

// updateActiveView forwards msg to the view that currently has focus.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewProjectForm:
		m.projectForm, cmd = m.projectForm.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	case ViewCalendar:
		m.calendar, cmd = m.calendar.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// applySnapshot pushes a snapshot into every view that renders from it.
func (m *Model) applySnapshot(snap store.Snapshot) {
	m.snap = snap
	m.dashboard.SetProjects(snap.Projects)
	m.calendar.SetTasks(store.DueTasks(snap.Projects))

	if m.detail.ProjectID() != "" && !m.detail.Refresh(snap.Projects) {
		if m.currentView == ViewDetail {
			m.home()
		}
	}
}

func (m *Model) navigate(v ViewState) {
	if v == m.currentView {
		return
	}
	m.history = append(m.history, m.currentView)
	m.currentView = v
}

func (m *Model) back() {
	n := len(m.history)
	if n == 0 {
		m.currentView = ViewDashboard
		return
	}
	m.currentView = m.history[n-1]
	m.history = m.history[:n-1]
}

func (m *Model) home() {
	m.history = nil
	m.currentView = ViewDashboard
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("ProjectPilot", m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboard.View()
	case ViewDetail:
		return m.detail.View()
	case ViewProjectForm:
		return m.projectForm.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewConfirm:
		return m.confirm.View()
	case ViewCalendar:
		return m.calendar.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// headerStatus summarizes upcoming deadlines for the header.
func (m Model) headerStatus() string {
	switch {
	case m.reminders == nil || !m.reminders.Enabled():
		return fmt.Sprintf("%d projects", len(m.snap.Projects))
	case m.digest == nil:
		return "checking deadlines..."
	default:
		return m.digest.Summary()
	}
}

// statusLine shows the last notice, or keyboard hints when there is none.
func (m Model) statusLine() string {
	switch {
	case m.notice.Err != nil:
		return theme.ErrorNoticeStyle.Render(m.notice.Text)
	case m.notice.Text != "":
		return theme.NoticeStyle.Render(m.notice.Text)
	default:
		return m.keyHints()
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewDetail:
		return "esc back | j/k task | x toggle | a add | E edit task | d delete task | e edit | s status | D delete"
	case ViewProjectForm, ViewTaskForm:
		return "enter next/submit | esc cancel"
	case ViewConfirm:
		return "←/→ choose | enter confirm | esc cancel"
	case ViewCalendar:
		return "h/l day | j/k week | [ ] month | t today | tab task | enter open | esc back"
	default:
		if m.dashboard.Searching() {
			return "enter keep search | esc clear"
		}
		return "q quit | ? help | n new | enter open | / search | tab status | c calendar | : command"
	}
}
