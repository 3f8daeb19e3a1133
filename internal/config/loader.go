package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file configuration.
const (
	EnvDSN       = "JELLYSTONE_DB"
	EnvLogLevel  = "JELLYSTONE_LOG_LEVEL"
	EnvLevelsDir = "JELLYSTONE_LEVELS_DIR"
)

// FileName is the configuration file name searched for.
const FileName = "jellystone.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.jellystone/jellystone.yaml -> ./configs/jellystone.yaml -> embedded default
// Only a customPath failure is an error; the other locations are optional.
// Environment overrides are applied and the result is normalized.
func Load(customPath string) (Config, error) {
	cfg, err := load(customPath)
	if err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	cfg.Normalize()
	return cfg, nil
}

func load(customPath string) (Config, error) {
	// Start from defaults so a partial file keeps the rest.
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ApplyEnv overrides fields from JELLYSTONE_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDSN); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLevelsDir); v != "" {
		cfg.Gameplay.LevelsDir = v
	}
}

// LogLevel parses the configured level, falling back to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jellystone", filename)
}
