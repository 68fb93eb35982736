package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		want    Command
		wantErr string
	}{
		{raw: "new", want: Command{Name: "new"}},
		{raw: "  Calendar ", want: Command{Name: "calendar"}},
		{raw: "filter in progress", want: Command{Name: "filter", Arg: "in progress"}},
		{raw: "search  bubble tea", want: Command{Name: "search", Arg: "bubble tea"}},
		{raw: "search", want: Command{Name: "search"}},
		{raw: "filter", wantErr: "usage: filter"},
		{raw: "deploy", wantErr: `unknown command "deploy"`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80, 20)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("filter planning")})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Name: "filter", Arg: "planning"}, cmd())
	assert.Contains(t, m.View(), "Command Palette")
}

func TestEnterShowsParseError(t *testing.T) {
	m := New(80, 20)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bogus")})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "unknown command")
}
