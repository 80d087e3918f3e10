// Package config provides YAML-based game configuration loading, layout and
// difficulty presets for the dodger game.
package config

import "time"

// InputKind selects which input adapter drives the player lane.
type InputKind string

const (
	InputTilt    InputKind = "tilt"
	InputButtons InputKind = "buttons"
)

// DodgerConfig contains all configuration for the game.
type DodgerConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Lives   int           `yaml:"lives"`
	Scoring ScoringConfig `yaml:"scoring"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Ramp    RampConfig    `yaml:"ramp"`
	Tilt    TiltConfig    `yaml:"tilt"`
	Modes   []ModeConfig  `yaml:"modes"`
	Scores  ScoresConfig  `yaml:"scores"`
	Map     MapConfig     `yaml:"map"`
}

// GridConfig defines the board. Rows counts the player row too.
type GridConfig struct {
	Rows      int `yaml:"rows"`
	Cols      int `yaml:"cols"`
	StartLane int `yaml:"start_lane"`
}

// ScoringConfig defines how points are earned.
type ScoringConfig struct {
	PerTick     int `yaml:"per_tick"`
	PickupBonus int `yaml:"pickup_bonus"`
}

// SpawnConfig defines spawn odds as thresholds on a roll in [0, 100).
// roll < ObstacleBelow spawns an obstacle, roll >= PickupFrom spawns a pickup.
type SpawnConfig struct {
	ObstacleBelow int `yaml:"obstacle_below"`
	PickupFrom    int `yaml:"pickup_from"`
}

// RampConfig defines the score-driven speed ramp.
type RampConfig struct {
	Enabled   bool `yaml:"enabled"`
	Milestone int  `yaml:"milestone"` // Points between speed-ups
	StepMS    int  `yaml:"step_ms"`   // Interval reduction per milestone
	FloorMS   int  `yaml:"floor_ms"`  // Interval never drops below this
}

// Step returns the per-milestone reduction as a duration.
func (r RampConfig) Step() time.Duration {
	return time.Duration(r.StepMS) * time.Millisecond
}

// Floor returns the minimum base interval.
func (r RampConfig) Floor() time.Duration {
	return time.Duration(r.FloorMS) * time.Millisecond
}

// TiltConfig tunes the continuous (tilt) input adapter.
type TiltConfig struct {
	MoveThreshold float64 `yaml:"move_threshold"` // |x| beyond this moves one lane
	DebounceMS    int     `yaml:"debounce_ms"`    // Minimum time between tilt moves
	FastAt        float64 `yaml:"fast_at"`        // y at or below this -> FastFactor
	SlowAt        float64 `yaml:"slow_at"`        // y at or above this -> SlowFactor
	FastFactor    float64 `yaml:"fast_factor"`
	SlowFactor    float64 `yaml:"slow_factor"`
	SampleMS      int     `yaml:"sample_ms"` // Host sampling period
}

// Debounce returns the minimum re-trigger interval.
func (t TiltConfig) Debounce() time.Duration {
	return time.Duration(t.DebounceMS) * time.Millisecond
}

// SamplePeriod returns how often the host polls the tilt source.
func (t TiltConfig) SamplePeriod() time.Duration {
	return time.Duration(t.SampleMS) * time.Millisecond
}

// ModeConfig is one entry of the start menu.
type ModeConfig struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	Input      InputKind `yaml:"input"`
	IntervalMS int       `yaml:"interval_ms"`
}

// Interval returns the starting tick interval for the mode.
func (m ModeConfig) Interval() time.Duration {
	return time.Duration(m.IntervalMS) * time.Millisecond
}

// ScoresConfig selects the score persistence backend.
type ScoresConfig struct {
	Backend string `yaml:"backend"` // "sqlite", "history" or "table"
	Limit   int    `yaml:"limit"`   // Top-N size
	Retain  string `yaml:"retain"`  // sqlite only: "history" or "top_n"
}

// MapConfig sets the scoreboard map's default view.
type MapConfig struct {
	CenterLat float64 `yaml:"center_lat"`
	CenterLng float64 `yaml:"center_lng"`
}

// Mode returns the mode with the given ID.
func (c DodgerConfig) Mode(id string) (ModeConfig, bool) {
	for _, m := range c.Modes {
		if m.ID == id {
			return m, true
		}
	}
	return ModeConfig{}, false
}

// FieldRows returns the number of falling-object rows above the player row.
func (c DodgerConfig) FieldRows() int {
	return c.Grid.Rows - 1
}
