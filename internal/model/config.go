package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Seed source kinds.
const (
	SeedBuiltin = "builtin"
	SeedEmpty   = "empty"
	SeedYAML    = "yaml"
	SeedSQLite  = "sqlite"
)

// IDsConfig selects the identifier generator.
type IDsConfig struct {
	// Kind is one of "uuid", "ulid" or "random".
	Kind string `mapstructure:"kind" yaml:"kind"`
}

// SeedConfig describes where the initial project collection comes from.
type SeedConfig struct {
	// Source is one of the Seed* constants.
	Source string `mapstructure:"source" yaml:"source"`

	// Path is the fixture file for the "yaml" and "sqlite" sources.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// RemindersConfig controls the due-date reminder job.
type RemindersConfig struct {
	// Schedule is a cron spec ("@every 15m", "0 9 * * *"). Empty disables reminders.
	Schedule string `mapstructure:"schedule" yaml:"schedule"`

	// Window is how far ahead an open task counts as due soon.
	Window time.Duration `mapstructure:"window" yaml:"window"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is "auto" (detect the terminal background), "dark" or "light".
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	IDs       IDsConfig       `mapstructure:"ids" yaml:"ids"`
	Seed      SeedConfig      `mapstructure:"seed" yaml:"seed"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
}

// EnvPrefix prefixes environment overrides, e.g. PROJECTPILOT_SEED_SOURCE.
const EnvPrefix = "PROJECTPILOT"

// ConfigDir returns ~/.config/projectpilot, or the working directory when
// the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "projectpilot")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/projectpilot/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		IDs:  IDsConfig{Kind: "uuid"},
		Seed: SeedConfig{Source: SeedBuiltin},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), "projectpilot.log"),
		},
		Reminders: RemindersConfig{
			Schedule: "@every 15m",
			Window:   48 * time.Hour,
		},
		Server:  ServerConfig{Addr: ":8080"},
		Display: DisplayConfig{Theme: "auto"},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("ids.kind", d.IDs.Kind)
	v.SetDefault("seed.source", d.Seed.Source)
	v.SetDefault("seed.path", d.Seed.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("reminders.schedule", d.Reminders.Schedule)
	v.SetDefault("reminders.window", d.Reminders.Window)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("display.theme", d.Display.Theme)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with PROJECTPILOT_ override file values.
// If the file does not exist, defaults (plus overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *AppConfig) Validate() error {
	switch c.IDs.Kind {
	case "uuid", "ulid", "random":
	default:
		return fmt.Errorf("ids.kind must be uuid, ulid or random, got %q", c.IDs.Kind)
	}
	switch c.Seed.Source {
	case SeedBuiltin, SeedEmpty:
	case SeedYAML, SeedSQLite:
		if strings.TrimSpace(c.Seed.Path) == "" {
			return fmt.Errorf("seed.path is required for seed source %q", c.Seed.Source)
		}
	default:
		return fmt.Errorf("unknown seed source %q", c.Seed.Source)
	}
	switch c.Display.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("display.theme must be auto, dark or light, got %q", c.Display.Theme)
	}
	if c.Reminders.Window < 0 {
		return fmt.Errorf("reminders.window must not be negative")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("ids.kind", cfg.IDs.Kind)
	v.Set("seed.source", cfg.Seed.Source)
	v.Set("seed.path", cfg.Seed.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("reminders.schedule", cfg.Reminders.Schedule)
	v.Set("reminders.window", cfg.Reminders.Window.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("display.theme", cfg.Display.Theme)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
