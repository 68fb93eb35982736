package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/projectpilot/internal/idgen"
	"github.com/nhle/projectpilot/internal/logging"
	"github.com/nhle/projectpilot/internal/model"
	"github.com/nhle/projectpilot/internal/reminder"
	"github.com/nhle/projectpilot/internal/seed"
	"github.com/nhle/projectpilot/internal/store"
	"github.com/nhle/projectpilot/internal/theme"
)

// env holds everything a command needs once configuration is loaded.
type env struct {
	cfg       *model.AppConfig
	log       zerolog.Logger
	logCloser io.Closer
	store     *store.MemoryStore
	reminders *reminder.Scheduler
}

// setup loads configuration, opens the log, seeds the store and builds the
// reminder scheduler. console mirrors log events to stderr.
func setup(ctx context.Context, console bool) (*env, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	theme.Apply(cfg.Display.Theme)

	log, closer, err := logging.New(cfg.Log, logging.Options{Console: console})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log, logCloser: closer}
	if err := e.open(ctx); err != nil {
		_ = closer.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) open(ctx context.Context) error {
	gen, err := idgen.New(e.cfg.IDs.Kind)
	if err != nil {
		return err
	}

	projects, err := seed.Load(ctx, e.cfg.Seed, gen, time.Now())
	if err != nil {
		return fmt.Errorf("loading seed: %w", err)
	}
	e.log.Info().
		Str("source", e.cfg.Seed.Source).
		Int("projects", len(projects)).
		Msg("seed loaded")

	e.store, err = store.NewMemoryStore(
		store.WithSeed(projects),
		store.WithIDGenerator(gen),
		store.WithLogger(logging.ForComponent(e.log, "store")),
	)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	e.reminders, err = reminder.New(e.store, e.cfg.Reminders,
		reminder.WithLogger(logging.ForComponent(e.log, "reminder")),
	)
	if err != nil {
		return err
	}
	return nil
}

func (e *env) Close() error {
	return e.logCloser.Close()
}
