package ecs

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// WorldConfig is the set of knobs a host application typically wants to
// control without recompiling: whether the diff tracker starts enabled,
// and logging verbosity and format. It carries no frame interval;
// Scheduler.Run takes its interval as an argument.
type WorldConfig struct {
	Tracker TrackerConfig `toml:"tracker"`
	Logging LoggingConfig `toml:"logging"`
}

// TrackerConfig controls the Tracker a World is constructed with.
type TrackerConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoggingConfig controls the *zap.Logger a World is constructed with.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func defaultWorldConfig() *WorldConfig {
	return &WorldConfig{
		Tracker: TrackerConfig{Enabled: false},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// LoadWorldConfig reads and parses a TOML config file, filling in defaults
// for anything the file omits.
func LoadWorldConfig(path string) (*WorldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world config %s: %w", path, err)
	}
	cfg := defaultWorldConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse world config %s: %w", path, err)
	}
	return cfg, nil
}
