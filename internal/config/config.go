// Package config provides YAML-based configuration loading for jellystone.
package config

import (
	"time"

	"github.com/vovakirdan/jellystone/internal/levels"
)

// Config is the whole configuration document.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Gameplay  GameplayConfig  `yaml:"gameplay"`
	Generator GeneratorConfig `yaml:"generator"`
	Timing    TimingConfig    `yaml:"timing"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Spectate  SpectateConfig  `yaml:"spectate"`
	SSH       SSHConfig       `yaml:"ssh"`
}

// GridConfig defines the board size.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// GameplayConfig defines session rules.
type GameplayConfig struct {
	Lives            int    `yaml:"lives"`
	PredefinedLevels int    `yaml:"predefined_levels"` // cap on predefined levels; 0 uses all available
	StrictLevels     bool   `yaml:"strict_levels"`     // reject malformed level files
	LevelsDir        string `yaml:"levels_dir"`        // empty uses the built-in levels
	Seed             int64  `yaml:"seed"`              // 0 picks a random seed
}

// GeneratorConfig defines how many entities generated levels hold.
type GeneratorConfig struct {
	Baskets    int `yaml:"baskets"`
	Trees      int `yaml:"trees"`
	Mountains  int `yaml:"mountains"`
	Patrollers int `yaml:"patrollers"`
}

// TimingConfig defines tick periods in milliseconds.
type TimingConfig struct {
	ClockIntervalMS  int `yaml:"clock_interval_ms"`
	PatrolIntervalMS int `yaml:"patrol_interval_ms"`
}

// StorageConfig defines the high-score database.
type StorageConfig struct {
	DSN       string `yaml:"dsn"` // file path for SQLite, postgres:// URL for PostgreSQL
	TopScores int    `yaml:"top_scores"`
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // used by interactive play
}

// SpectateConfig defines the spectator feed.
type SpectateConfig struct {
	Addr string `yaml:"addr"` // empty disables the feed
}

// SSHConfig defines the SSH server.
type SSHConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	HostKey string `yaml:"host_key"`
}

// ClockInterval returns the clock period.
func (t TimingConfig) ClockInterval() time.Duration {
	return time.Duration(t.ClockIntervalMS) * time.Millisecond
}

// PatrolInterval returns the patrol period.
func (t TimingConfig) PatrolInterval() time.Duration {
	return time.Duration(t.PatrolIntervalMS) * time.Millisecond
}

// LevelOptions returns parser options for level files.
func (c Config) LevelOptions() levels.Options {
	return levels.Options{
		Rows:   c.Grid.Rows,
		Cols:   c.Grid.Cols,
		Strict: c.Gameplay.StrictLevels,
	}
}

// GenParams returns procedural generator parameters.
func (c Config) GenParams() levels.GenParams {
	return levels.GenParams{
		Rows:       c.Grid.Rows,
		Cols:       c.Grid.Cols,
		Baskets:    c.Generator.Baskets,
		Trees:      c.Generator.Trees,
		Mountains:  c.Generator.Mountains,
		Patrollers: c.Generator.Patrollers,
	}
}
