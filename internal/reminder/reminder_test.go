package reminder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/reminder"
	"github.com/nhle/projectpilot/internal/testutil"
)

type staticFeed []model.DueTask

func (f staticFeed) TasksWithDueDate() []model.DueTask { return f }

func row(desc string, due time.Time, done bool) model.DueTask {
	return model.DueTask{
		ProjectID:   "p",
		ProjectName: "Project",
		Task:        model.Task{ID: desc, Description: desc, Completed: done, DueDate: &due},
	}
}

func ids(rows []model.DueTask) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Task.ID
	}
	return out
}

func TestBuildDigest(t *testing.T) {
	now := testutil.Epoch
	rows := []model.DueTask{
		row("late-2", now.Add(-time.Hour), false),
		row("late-1", now.Add(-48*time.Hour), false),
		row("done-late", now.Add(-time.Hour), true),
		row("soon", now.Add(24*time.Hour), false),
		row("exactly-now", now, false),
		row("edge", now.Add(48*time.Hour), false),
		row("far", now.Add(10*24*time.Hour), false),
		{ProjectID: "p", Task: model.Task{ID: "no-due"}},
	}

	d := reminder.BuildDigest(rows, now, 48*time.Hour)

	assert.Equal(t, []string{"late-1", "late-2"}, ids(d.Overdue))
	assert.Equal(t, []string{"exactly-now", "soon"}, ids(d.DueSoon))
	assert.Equal(t, "2 overdue, 2 due within 48h", d.Summary())
	assert.False(t, d.Empty())
}

func TestDigestSummaryEmpty(t *testing.T) {
	d := reminder.BuildDigest(nil, testutil.Epoch, time.Hour)
	assert.True(t, d.Empty())
	assert.NotNil(t, d.Overdue)
	assert.Equal(t, "No upcoming deadlines", d.Summary())

	d = reminder.BuildDigest([]model.DueTask{row("x", testutil.Epoch.Add(-time.Minute), false)}, testutil.Epoch, 90*time.Minute)
	assert.Equal(t, "1 overdue", d.Summary())
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := reminder.New(staticFeed{}, model.RemindersConfig{Schedule: "every tuesday"})
	assert.ErrorContains(t, err, "parsing reminder schedule")
}

func TestDisabledScheduler(t *testing.T) {
	s, err := reminder.New(staticFeed{}, model.RemindersConfig{})
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	assert.Nil(t, s.Start())
	s.Stop()
}

func TestRunNowPublishes(t *testing.T) {
	feed := staticFeed{row("late", testutil.Epoch.Add(-time.Hour), false)}
	s, err := reminder.New(feed, model.RemindersConfig{Window: time.Hour},
		reminder.WithClock(func() time.Time { return testutil.Epoch }))
	require.NoError(t, err)

	d := s.RunNow()
	assert.Len(t, d.Overdue, 1)
	assert.Equal(t, d, s.Last())

	msg := s.WaitForDigest()()
	got, ok := msg.(reminder.DigestMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"late"}, ids(got.Digest.Overdue))
}

func TestStartRunsImmediately(t *testing.T) {
	feed := staticFeed{row("soon", testutil.Epoch.Add(time.Hour), false)}
	s, err := reminder.New(feed, model.RemindersConfig{Schedule: "@every 1h", Window: 2 * time.Hour},
		reminder.WithClock(func() time.Time { return testutil.Epoch }))
	require.NoError(t, err)
	require.True(t, s.Enabled())

	cmd := s.Start()
	require.NotNil(t, cmd)
	defer s.Stop()

	assert.Nil(t, s.Start(), "second start is a no-op")

	select {
	case d := <-s.Digests():
		assert.Equal(t, []string{"soon"}, ids(d.DueSoon))
	case <-time.After(time.Second):
		t.Fatal("no digest after start")
	}
}
