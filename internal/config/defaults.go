package config

import (
	_ "embed"
)

//go:embed defaults/dodger.yaml
var defaultDodgerYAML []byte

// DefaultConfig returns the built-in configuration. It mirrors the embedded
// defaults/dodger.yaml and is used when that file cannot be parsed.
func DefaultConfig() DodgerConfig {
	return DodgerConfig{
		Grid: GridConfig{
			Rows:      7,
			Cols:      5,
			StartLane: 2,
		},
		Lives: 3,
		Scoring: ScoringConfig{
			PerTick:     10,
			PickupBonus: 50,
		},
		Spawn: SpawnConfig{
			ObstacleBelow: 50,
			PickupFrom:    86,
		},
		Ramp: RampConfig{
			Enabled:   true,
			Milestone: 100,
			StepMS:    50,
			FloorMS:   300,
		},
		Tilt: TiltConfig{
			MoveThreshold: 3.0,
			DebounceMS:    250,
			FastAt:        3.0,
			SlowAt:        9.0,
			FastFactor:    0.5,
			SlowFactor:    1.5,
			SampleMS:      50,
		},
		Modes: []ModeConfig{
			{ID: "tilt", Title: "Sensors", Input: InputTilt, IntervalMS: 1000},
			{ID: "slow", Title: "Buttons - Slow", Input: InputButtons, IntervalMS: 1200},
			{ID: "fast", Title: "Buttons - Fast", Input: InputButtons, IntervalMS: 600},
		},
		Scores: ScoresConfig{
			Backend: "sqlite",
			Limit:   10,
			Retain:  "history",
		},
		Map: MapConfig{
			CenterLat: 31.0461,
			CenterLng: 34.8516,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultDodgerYAML
}

// Layout names a board/scoring variant.
type Layout string

const (
	// LayoutClassic is the 7x5 board scoring 10 points per tick.
	LayoutClassic Layout = "classic"
	// LayoutCompact is the 5x3 board scoring 100 points per tick.
	LayoutCompact Layout = "compact"
)

// ApplyLayout rewrites the board, scoring and ramp constants for a layout.
// Unknown or empty layouts leave the config unchanged.
func ApplyLayout(cfg *DodgerConfig, layout Layout) {
	switch layout {
	case LayoutClassic:
		def := DefaultConfig()
		cfg.Grid = def.Grid
		cfg.Scoring = def.Scoring
		cfg.Spawn = def.Spawn
		cfg.Ramp.Milestone = def.Ramp.Milestone
	case LayoutCompact:
		cfg.Grid = GridConfig{Rows: 5, Cols: 3, StartLane: 1}
		cfg.Scoring = ScoringConfig{PerTick: 100, PickupBonus: 500}
		cfg.Spawn = SpawnConfig{ObstacleBelow: 40, PickupFrom: 85}
		cfg.Ramp.Milestone = 1000
	}
}
