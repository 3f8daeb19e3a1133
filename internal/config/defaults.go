package config

import (
	_ "embed"
)

//go:embed defaults/jellystone.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{Rows: 13, Cols: 13},
		Gameplay: GameplayConfig{
			Lives:            3,
			PredefinedLevels: 10,
		},
		Generator: GeneratorConfig{
			Baskets:    4,
			Trees:      4,
			Mountains:  4,
			Patrollers: 4,
		},
		Timing: TimingConfig{
			ClockIntervalMS:  1000,
			PatrolIntervalMS: 500,
		},
		Storage: StorageConfig{
			DSN:       "~/.jellystone/scores.db",
			TopScores: 10,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.jellystone/jellystone.log",
		},
		SSH: SSHConfig{
			Host:    "0.0.0.0",
			Port:    2222,
			HostKey: ".ssh/jellystone_ed25519",
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultYAML
}

// Normalize fills zero or invalid fields from Default.
func (c *Config) Normalize() {
	d := Default()

	if c.Grid.Rows <= 0 {
		c.Grid.Rows = d.Grid.Rows
	}
	if c.Grid.Cols <= 0 {
		c.Grid.Cols = d.Grid.Cols
	}
	if c.Gameplay.Lives <= 0 {
		c.Gameplay.Lives = d.Gameplay.Lives
	}
	if c.Gameplay.PredefinedLevels < 0 {
		c.Gameplay.PredefinedLevels = 0
	}
	// A generated level must have something to collect.
	if c.Generator.Baskets <= 0 {
		c.Generator.Baskets = d.Generator.Baskets
	}
	if c.Generator.Trees < 0 {
		c.Generator.Trees = 0
	}
	if c.Generator.Mountains < 0 {
		c.Generator.Mountains = 0
	}
	if c.Generator.Patrollers < 0 {
		c.Generator.Patrollers = 0
	}
	if c.Timing.ClockIntervalMS <= 0 {
		c.Timing.ClockIntervalMS = d.Timing.ClockIntervalMS
	}
	if c.Timing.PatrolIntervalMS <= 0 {
		c.Timing.PatrolIntervalMS = d.Timing.PatrolIntervalMS
	}
	if c.Storage.DSN == "" {
		c.Storage.DSN = d.Storage.DSN
	}
	if c.Storage.TopScores <= 0 {
		c.Storage.TopScores = d.Storage.TopScores
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = d.Log.File
	}
	if c.SSH.Host == "" {
		c.SSH.Host = d.SSH.Host
	}
	if c.SSH.Port <= 0 {
		c.SSH.Port = d.SSH.Port
	}
	if c.SSH.HostKey == "" {
		c.SSH.HostKey = d.SSH.HostKey
	}
}
