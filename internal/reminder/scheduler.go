// Package reminder periodically checks task deadlines and reports overdue
// and soon-due work.
package reminder

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/nhle/projectpilot/internal/model"
)

// DigestMsg is a tea.Msg carrying the result of a reminder run.
type DigestMsg struct {
	Digest Digest
}

// Feed supplies the calendar rows a run inspects. store.MemoryStore
// satisfies it.
type Feed interface {
	TasksWithDueDate() []model.DueTask
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source for runs.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger for run results.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// Scheduler runs the reminder check on a cron schedule and publishes each
// digest on a buffered channel.
type Scheduler struct {
	feed   Feed
	window time.Duration
	now    func() time.Time
	log    zerolog.Logger

	cron     *cron.Cron
	resultCh chan Digest

	mu      sync.Mutex
	running bool
	last    Digest
}

// New creates a scheduler for cfg. An empty schedule yields a scheduler
// whose Start is a no-op; RunNow still works.
func New(feed Feed, cfg model.RemindersConfig, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		feed:     feed,
		window:   cfg.Window,
		now:      time.Now,
		log:      zerolog.Nop(),
		resultCh: make(chan Digest, 16),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.Schedule == "" {
		return s, nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(cfg.Schedule, func() { s.RunNow() }); err != nil {
		return nil, fmt.Errorf("parsing reminder schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool {
	return s.cron != nil
}

// Start runs one check immediately, starts the cron loop and returns a
// tea.Cmd that waits for the first digest.
func (s *Scheduler) Start() tea.Cmd {
	if s.cron == nil {
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.RunNow()
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("reminder scheduler started")

	return s.WaitForDigest()
}

// Stop halts the cron loop and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	// A running job takes s.mu in RunNow, so wait without holding it.
	<-s.cron.Stop().Done()
}

// RunNow performs a check, records it as the latest digest and publishes it.
func (s *Scheduler) RunNow() Digest {
	d := BuildDigest(s.feed.TasksWithDueDate(), s.now(), s.window)

	s.mu.Lock()
	s.last = d
	s.mu.Unlock()

	ev := s.log.Debug()
	if !d.Empty() {
		ev = s.log.Info()
	}
	ev.Int("overdue", len(d.Overdue)).
		Int("due_soon", len(d.DueSoon)).
		Dur("window", d.Window).
		Msg("reminder check")

	s.send(d)
	return d
}

// Last returns the most recent digest.
func (s *Scheduler) Last() Digest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Digests exposes the result channel for consumers outside Bubble Tea.
func (s *Scheduler) Digests() <-chan Digest {
	return s.resultCh
}

// send publishes without blocking; a full channel drops the digest.
func (s *Scheduler) send(d Digest) {
	select {
	case s.resultCh <- d:
	default:
		s.log.Warn().Msg("reminder digest dropped, channel full")
	}
}

// WaitForDigest returns a tea.Cmd that blocks until the next digest. Call
// it again after handling a DigestMsg to keep listening.
func (s *Scheduler) WaitForDigest() tea.Cmd {
	return func() tea.Msg {
		d, ok := <-s.resultCh
		if !ok {
			return nil
		}
		return DigestMsg{Digest: d}
	}
}
