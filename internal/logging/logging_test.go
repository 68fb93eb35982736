package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/projectpilot/internal/model"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestForComponentTagsEvents(t *testing.T) {
	var buf bytes.Buffer
	l := ForComponent(NewWithWriter(&buf, zerolog.DebugLevel), "store")
	l.Info().Str("project", "p1").Msg("project created")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "store", event[Component])
	assert.Equal(t, "p1", event["project"])
	assert.Equal(t, "project created", event[zerolog.MessageFieldName])
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, closer, err := New(model.LogConfig{Level: "warn", File: path}, Options{})
	require.NoError(t, err)

	l.Info().Msg("filtered out")
	l.Warn().Msg("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered out")
	assert.Contains(t, string(data), "kept")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, closer, err := New(model.LogConfig{Level: "chatty"}, Options{})
	assert.Error(t, err)
	assert.NotNil(t, closer)
}
