package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jellystone/internal/config"
	"github.com/vovakirdan/jellystone/internal/levels"
	"github.com/vovakirdan/jellystone/internal/scheduler"
	"github.com/vovakirdan/jellystone/internal/session"
	"github.com/vovakirdan/jellystone/internal/storage"
)

// loadConfig reads the configuration and applies the global flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagDB != "" {
		cfg.Storage.DSN = flagDB
	}
	if flagSeed != 0 {
		cfg.Gameplay.Seed = flagSeed
	}
	if flagLevels != "" {
		cfg.Gameplay.LevelsDir = flagLevels
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// newLogger creates a logger in the house style.
func newLogger(w io.Writer, cfg config.Config, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(cfg.LogLevel())
	return logger
}

// openLogFile opens the configured log file for appending. Interactive play
// cannot log to stderr without corrupting the screen, so failures fall back
// to discarding logs.
func openLogFile(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	path = config.ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

// app holds what every game created by a command shares.
type app struct {
	cfg    config.Config
	logger *log.Logger
	source levels.Source
	store  session.ScoreStore
	db     *storage.Store
	seed   atomic.Int64
}

// newApp opens the level source and the score store. A store that cannot be
// opened is replaced by an in-memory one so play can go on.
func newApp(cfg config.Config, logger *log.Logger) (*app, error) {
	source, err := openSource(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		source: source,
	}

	seed := cfg.Gameplay.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.seed.Store(seed)

	db, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		logger.Warn("scores database unavailable, keeping scores in memory", "error", err)
		a.store = session.NewMemoryStore()
	} else {
		logger.Debug("scores database opened", "dialect", db.Dialect())
		a.db = db
		a.store = db
	}
	return a, nil
}

func openSource(cfg config.Config) (levels.Source, error) {
	opts := cfg.LevelOptions()

	var src levels.Source = levels.Builtin(opts)
	if dir := cfg.Gameplay.LevelsDir; dir != "" {
		fsrc, err := levels.Dir(config.ExpandHome(dir), opts)
		if err != nil {
			return nil, err
		}
		src = fsrc
	}
	return levels.Limit(src, cfg.Gameplay.PredefinedLevels), nil
}

// newRunner builds a game that is ready to Run. Each game gets its own
// generator seeded from the next seed in sequence.
func (a *app) newRunner(player string) (*session.Runner, error) {
	seed := a.seed.Add(1) - 1
	logger := a.logger.With("player", player)

	s, err := session.New(session.Config{
		Lives:     a.cfg.Gameplay.Lives,
		Source:    a.source,
		Generator: levels.NewGenerator(a.cfg.GenParams(), seed),
		Store:     a.store,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	sched := scheduler.New(
		a.cfg.Timing.ClockInterval(),
		a.cfg.Timing.PatrolInterval(),
		scheduler.WithLogger(logger),
	)
	return session.NewRunner(s, sched, logger), nil
}

// Close releases the score database.
func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("closing scores database", "error", err)
		}
	}
}
