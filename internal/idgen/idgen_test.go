package idgen

import (
	"regexp"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/oklog/ulid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, kind := range []string{"", "uuid", "ulid", "random"} {
		g, err := New(kind)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, g.NewID(), kind)
	}

	_, err := New("snowflake")
	assert.Error(t, err)
}

func TestUUIDIsVersion7(t *testing.T) {
	id := UUID{}.NewID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestULIDIsMonotonic(t *testing.T) {
	g := NewULID()
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = g.NewID()
		_, err := ulid.Parse(ids[i])
		require.NoError(t, err)
	}
	assert.True(t, sort.StringsAreSorted(ids), "ULIDs must sort in creation order")
}

func TestRandomTokenShape(t *testing.T) {
	g := NewRandomSeeded(1, 2)
	re := regexp.MustCompile(`^[0-9a-z]{2,26}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, g.NewID())
	}
}

func TestRandomSeededIsDeterministic(t *testing.T) {
	a := NewRandomSeeded(7, 9)
	b := NewRandomSeeded(7, 9)
	assert.Equal(t, a.NewID(), b.NewID())
}

func TestGeneratorsAreConcurrencySafe(t *testing.T) {
	for _, g := range []Generator{UUID{}, NewULID(), NewRandom()} {
		var (
			mu   sync.Mutex
			seen = make(map[string]bool)
			wg   sync.WaitGroup
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					id := g.NewID()
					mu.Lock()
					seen[id] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Len(t, seen, 800)
	}
}

func TestFunc(t *testing.T) {
	g := Func(func() string { return "fixed" })
	assert.Equal(t, "fixed", g.NewID())
}
