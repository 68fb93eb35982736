package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "uuid", cfg.IDs.Kind)
	assert.Equal(t, SeedBuiltin, cfg.Seed.Source)
	assert.Equal(t, "@every 15m", cfg.Reminders.Schedule)
	assert.Equal(t, 48*time.Hour, cfg.Reminders.Window)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "auto", cfg.Display.Theme)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
ids:
  kind: ulid
seed:
  source: yaml
  path: /tmp/fixtures.yaml
reminders:
  schedule: "0 9 * * *"
  window: 24h
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ulid", cfg.IDs.Kind)
	assert.Equal(t, SeedYAML, cfg.Seed.Source)
	assert.Equal(t, "/tmp/fixtures.yaml", cfg.Seed.Path)
	assert.Equal(t, "0 9 * * *", cfg.Reminders.Schedule)
	assert.Equal(t, 24*time.Hour, cfg.Reminders.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr, "unset keys keep defaults")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PROJECTPILOT_SERVER_ADDR", ":9999")
	t.Setenv("PROJECTPILOT_IDS_KIND", "random")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "random", cfg.IDs.Kind)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed:\n  source: sqlite\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "seed.path is required")
}

func TestValidate(t *testing.T) {
	cfg := DefaultAppConfig()
	require.NoError(t, cfg.Validate())

	cfg.IDs.Kind = "snowflake"
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Seed.Source = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Reminders.Window = -time.Minute
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Display.Theme = "solarized"
	assert.Error(t, cfg.Validate())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.IDs.Kind = "ulid"
	cfg.Seed = SeedConfig{Source: SeedSQLite, Path: "/data/fixtures.db"}
	cfg.Reminders.Window = 6 * time.Hour

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ulid", loaded.IDs.Kind)
	assert.Equal(t, SeedSQLite, loaded.Seed.Source)
	assert.Equal(t, "/data/fixtures.db", loaded.Seed.Path)
	assert.Equal(t, 6*time.Hour, loaded.Reminders.Window)
}
