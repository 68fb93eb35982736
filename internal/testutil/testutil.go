// Package testutil holds shared helpers for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nhle/projectpilot/internal/idgen"
	"github.com/nhle/projectpilot/internal/store"
)

// Epoch is the fixed instant test clocks start from.
var Epoch = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) idgen.Generator {
	var (
		mu sync.Mutex
		n  int
	)
	return idgen.Func(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}

// NewMemoryStore creates an empty store with sequential ids and a frozen
// clock at Epoch. Extra options are applied after the defaults.
func NewMemoryStore(t *testing.T, opts ...store.Option) (*store.MemoryStore, *Clock) {
	t.Helper()

	clock := NewClock(Epoch)
	base := []store.Option{
		store.WithIDGenerator(SequentialIDs("id")),
		store.WithClock(clock.Now),
	}

	s, err := store.NewMemoryStore(append(base, opts...)...)
	if err != nil {
		t.Fatalf("creating memory store: %v", err)
	}
	return s, clock
}

// NewSQLiteFixtures opens a fixture database in a temporary directory.
// It automatically closes the database when the test completes.
func NewSQLiteFixtures(t *testing.T) (*store.SQLiteFixtures, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixtures.db")
	f, err := store.OpenSQLiteFixtures(path)
	if err != nil {
		t.Fatalf("opening fixture db: %v", err)
	}

	t.Cleanup(func() {
		if err := f.Close(); err != nil {
			t.Errorf("closing fixture db: %v", err)
		}
	})

	return f, path
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date returning a pointer.
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// ConstantID returns a generator that always yields id.
func ConstantID(id string) idgen.Generator {
	return idgen.Func(func() string { return id })
}
