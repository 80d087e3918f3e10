package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration cannot produce a playable game.
var ErrInvalidConfig = errors.New("config: invalid")

// Load loads the dodger configuration.
// Search order: customPath -> ~/.dodger/configs/dodger.yaml -> ./configs/dodger.yaml -> embedded default
func Load(customPath string) (DodgerConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DodgerConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return DodgerConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserConfigPath("dodger.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/dodger.yaml"); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultDodgerYAML)
	if err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of DefaultConfig, so omitted keys keep their
// defaults, and validates the result.
func Parse(data []byte) (DodgerConfig, error) {
	cfg := DefaultConfig()
	// A document that sets modes replaces the whole list.
	cfg.Modes = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DodgerConfig{}, err
	}
	if len(cfg.Modes) == 0 {
		cfg.Modes = DefaultConfig().Modes
	}
	if err := cfg.Validate(); err != nil {
		return DodgerConfig{}, err
	}
	return cfg, nil
}

// UserConfigPath returns the path to a user config file, or empty if home is unavailable.
func UserConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dodger", "configs", filename)
}

// Validate checks that the configuration describes a playable game.
func (c DodgerConfig) Validate() error {
	switch {
	case c.Grid.Rows < 2:
		return fmt.Errorf("%w: grid.rows must be at least 2, got %d", ErrInvalidConfig, c.Grid.Rows)
	case c.Grid.Cols < 1:
		return fmt.Errorf("%w: grid.cols must be at least 1, got %d", ErrInvalidConfig, c.Grid.Cols)
	case c.Grid.StartLane < 0 || c.Grid.StartLane >= c.Grid.Cols:
		return fmt.Errorf("%w: grid.start_lane %d outside [0, %d)", ErrInvalidConfig, c.Grid.StartLane, c.Grid.Cols)
	case c.Lives < 1:
		return fmt.Errorf("%w: lives must be positive, got %d", ErrInvalidConfig, c.Lives)
	case c.Scoring.PerTick < 0 || c.Scoring.PickupBonus < 0:
		return fmt.Errorf("%w: scoring values must not be negative", ErrInvalidConfig)
	case c.Spawn.ObstacleBelow < 0 || c.Spawn.ObstacleBelow > c.Spawn.PickupFrom || c.Spawn.PickupFrom > 100:
		return fmt.Errorf("%w: spawn thresholds need 0 <= obstacle_below <= pickup_from <= 100", ErrInvalidConfig)
	case c.Ramp.Enabled && c.Ramp.Milestone <= 0:
		return fmt.Errorf("%w: ramp.milestone must be positive", ErrInvalidConfig)
	case c.Ramp.StepMS < 0 || c.Ramp.FloorMS <= 0:
		return fmt.Errorf("%w: ramp.step_ms must be >= 0 and ramp.floor_ms > 0", ErrInvalidConfig)
	case c.Tilt.DebounceMS < 0 || c.Tilt.SampleMS <= 0:
		return fmt.Errorf("%w: tilt.debounce_ms must be >= 0 and tilt.sample_ms > 0", ErrInvalidConfig)
	case c.Tilt.FastAt >= c.Tilt.SlowAt:
		return fmt.Errorf("%w: tilt.fast_at must be below tilt.slow_at", ErrInvalidConfig)
	case c.Tilt.FastFactor <= 0 || c.Tilt.FastFactor > c.Tilt.SlowFactor:
		return fmt.Errorf("%w: tilt factors need 0 < fast_factor <= slow_factor", ErrInvalidConfig)
	case c.Scores.Limit <= 0:
		return fmt.Errorf("%w: scores.limit must be positive", ErrInvalidConfig)
	}

	switch c.Scores.Backend {
	case "sqlite", "history", "table":
	default:
		return fmt.Errorf("%w: unknown scores.backend %q", ErrInvalidConfig, c.Scores.Backend)
	}
	switch c.Scores.Retain {
	case "history", "top_n":
	default:
		return fmt.Errorf("%w: unknown scores.retain %q", ErrInvalidConfig, c.Scores.Retain)
	}

	seen := make(map[string]bool, len(c.Modes))
	for _, m := range c.Modes {
		if m.ID == "" || seen[m.ID] {
			return fmt.Errorf("%w: mode ids must be unique and non-empty (%q)", ErrInvalidConfig, m.ID)
		}
		seen[m.ID] = true
		if m.Input != InputTilt && m.Input != InputButtons {
			return fmt.Errorf("%w: mode %s has unknown input %q", ErrInvalidConfig, m.ID, m.Input)
		}
		if m.IntervalMS <= 0 {
			return fmt.Errorf("%w: mode %s needs a positive interval_ms", ErrInvalidConfig, m.ID)
		}
	}
	return nil
}
