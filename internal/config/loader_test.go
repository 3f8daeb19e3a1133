package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	d := Default()
	if cfg != d {
		t.Errorf("embedded defaults differ from Default():\n%+v\n%+v", cfg, d)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
gameplay:
  lives: 5
  strict_levels: true
timing:
  patrol_interval_ms: 250
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gameplay.Lives != 5 || !cfg.Gameplay.StrictLevels {
		t.Errorf("unexpected gameplay %+v", cfg.Gameplay)
	}
	if cfg.Timing.PatrolIntervalMS != 250 || cfg.Timing.ClockIntervalMS != 1000 {
		t.Errorf("unexpected timing %+v", cfg.Timing)
	}
	if cfg.Grid.Rows != 13 {
		t.Errorf("partial file should keep default grid, got %+v", cfg.Grid)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", FileName), []byte("grid: {rows: 9, cols: 11}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Grid.Rows != 9 || cfg.Grid.Cols != 11 {
		t.Errorf("expected 9x11 grid, got %+v", cfg.Grid)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDSN, "postgres://localhost/scores")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLevelsDir, "/tmp/levels")

	cfg := Default()
	ApplyEnv(&cfg)
	if cfg.Storage.DSN != "postgres://localhost/scores" {
		t.Errorf("DSN not overridden: %s", cfg.Storage.DSN)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %v", cfg.LogLevel())
	}
	if cfg.Gameplay.LevelsDir != "/tmp/levels" {
		t.Errorf("levels dir not overridden: %s", cfg.Gameplay.LevelsDir)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		check func(Config) bool
	}{
		{"zero grid", func(c *Config) { c.Grid = GridConfig{} }, func(c Config) bool { return c.Grid.Rows == 13 && c.Grid.Cols == 13 }},
		{"zero lives", func(c *Config) { c.Gameplay.Lives = 0 }, func(c Config) bool { return c.Gameplay.Lives == 3 }},
		{"no baskets", func(c *Config) { c.Generator.Baskets = 0 }, func(c Config) bool { return c.Generator.Baskets == 4 }},
		{"negative trees", func(c *Config) { c.Generator.Trees = -2 }, func(c Config) bool { return c.Generator.Trees == 0 }},
		{"zero patrollers kept", func(c *Config) { c.Generator.Patrollers = 0 }, func(c Config) bool { return c.Generator.Patrollers == 0 }},
		{"zero timing", func(c *Config) { c.Timing = TimingConfig{} }, func(c Config) bool {
			return c.Timing.ClockInterval().Seconds() == 1 && c.Timing.PatrolInterval().Milliseconds() == 500
		}},
		{"empty dsn", func(c *Config) { c.Storage.DSN = "" }, func(c Config) bool { return c.Storage.DSN == Default().Storage.DSN }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mod(&cfg)
			cfg.Normalize()
			if !tc.check(cfg) {
				t.Errorf("unexpected config after Normalize: %+v", cfg)
			}
		})
	}
}

func TestLogLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("expected info fallback, got %v", cfg.LogLevel())
	}
}

func TestLevelOptionsAndGenParams(t *testing.T) {
	cfg := Default()
	cfg.Gameplay.StrictLevels = true

	opts := cfg.LevelOptions()
	if opts.Rows != 13 || opts.Cols != 13 || !opts.Strict {
		t.Errorf("unexpected options %+v", opts)
	}
	p := cfg.GenParams()
	if p.Baskets != 4 || p.Patrollers != 4 || p.Rows != 13 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := ExpandHome("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Errorf("ExpandHome = %s", got)
	}
	if got := ExpandHome("/abs/x.db"); got != "/abs/x.db" {
		t.Errorf("absolute path changed: %s", got)
	}
}
