package taskform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/testutil"
)

func TestSubmitAddsTask(t *testing.T) {
	s, _ := testutil.NewMemoryStore(t)
	p, err := s.Create(model.ProjectInput{Name: "X"})
	require.NoError(t, err)

	m := New(s, 80, 30)
	m.StartCreate(p)
	m.fb.description = "  write docs "
	m.fb.dueDate = "2024-03-05"

	msg := m.submit()().(SavedMsg)
	require.NoError(t, msg.Err)
	assert.True(t, msg.Created)
	assert.Equal(t, "write docs", msg.Task.Description)
	assert.Equal(t, "2024-03-05", msg.Task.DueKey())

	got, _ := s.Get(p.ID)
	require.Len(t, got.Tasks, 1)
}

func TestSubmitEditClearsDueDate(t *testing.T) {
	s, _ := testutil.NewMemoryStore(t)
	p, err := s.Create(model.ProjectInput{
		Name:  "X",
		Tasks: []model.Task{{Description: "a", DueDate: testutil.DatePtr(2024, time.March, 1)}},
	})
	require.NoError(t, err)

	m := New(s, 80, 30)
	m.StartEdit(p, p.Tasks[0])
	assert.Equal(t, "2024-03-01", m.fb.dueDate)

	m.fb.dueDate = ""
	m.fb.completed = true

	msg := m.submit()().(SavedMsg)
	require.NoError(t, msg.Err)
	assert.False(t, msg.Created)
	assert.Nil(t, msg.Task.DueDate)
	assert.True(t, msg.Task.Completed)
}

func TestSubmitErrors(t *testing.T) {
	s, _ := testutil.NewMemoryStore(t)
	p, err := s.Create(model.ProjectInput{Name: "X"})
	require.NoError(t, err)

	m := New(s, 80, 30)
	m.StartCreate(p)
	m.fb.description = " "
	assert.ErrorIs(t, m.submit()().(SavedMsg).Err, store.ErrValidation)

	m.fb.description = "ok"
	m.fb.dueDate = "someday"
	assert.Error(t, m.submit()().(SavedMsg).Err)

	require.NoError(t, s.Delete(p.ID))
	m.fb.dueDate = ""
	assert.ErrorIs(t, m.submit()().(SavedMsg).Err, store.ErrNotFound)
}
