package dodger

import "time"

// Snapshot captures the state exposed to the presentation layer and used for
// determinism testing.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Score      int
	Lives      int
	MaxLives   int
	Lane       int
	Interval   time.Duration // Ramped base interval
	TiltFactor float64
	Running    bool
	GameOver   bool
	Paused     bool
	Grid       Grid
}
