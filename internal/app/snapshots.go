package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/projectpilot/internal/store"
)

// SnapshotMsg delivers a new store snapshot to the views.
type SnapshotMsg struct {
	Snapshot store.Snapshot
}

// snapshotFeed bridges store subscriptions into Bubble Tea. It keeps only
// the newest snapshot pending, so a slow UI skips intermediate versions.
type snapshotFeed struct {
	ch     chan store.Snapshot
	cancel func()
}

func subscribe(st store.ProjectStore) *snapshotFeed {
	f := &snapshotFeed{ch: make(chan store.Snapshot, 1)}
	f.cancel = st.Subscribe(f.push)
	return f
}

func (f *snapshotFeed) push(snap store.Snapshot) {
	for {
		select {
		case f.ch <- snap:
			return
		default:
		}
		select {
		case old := <-f.ch:
			if old.Version > snap.Version {
				snap = old
			}
		default:
		}
	}
}

// wait returns a tea.Cmd that blocks until the next snapshot. Re-issue it
// after every SnapshotMsg.
func (f *snapshotFeed) wait() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-f.ch
		if !ok {
			return nil
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func (f *snapshotFeed) close() {
	f.cancel()
}
