package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// IsFixedPreset returns true if the preset disables the speed ramp.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *DodgerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	cfg.Ramp.Enabled = !IsFixedPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Lives = 5
		cfg.Ramp.StepMS = 25
		cfg.Spawn.ObstacleBelow = 35
	case DifficultyHard:
		cfg.Lives = 2
		cfg.Ramp.StepMS = 75
		cfg.Ramp.FloorMS = 200
		cfg.Spawn.ObstacleBelow = 65
	}
}
