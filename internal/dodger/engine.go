package dodger

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/core"
)

// spawnRoll is the exclusive upper bound of the spawn roll.
const spawnRoll = 100

// Rules holds the constants the engine applies every tick.
type Rules struct {
	PerTick       int
	PickupBonus   int
	ObstacleBelow int
	PickupFrom    int
	Ramp          config.RampConfig
}

// RulesFromConfig extracts engine rules from a game configuration.
func RulesFromConfig(cfg config.DodgerConfig) Rules {
	return Rules{
		PerTick:       cfg.Scoring.PerTick,
		PickupBonus:   cfg.Scoring.PickupBonus,
		ObstacleBelow: cfg.Spawn.ObstacleBelow,
		PickupFrom:    cfg.Spawn.PickupFrom,
		Ramp:          cfg.Ramp,
	}
}

// RunState is the per-run mutable state threaded through Tick.
type RunState struct {
	Score    int
	Lives    int
	Interval time.Duration // Base tick interval, lowered by the speed ramp
	Running  bool
	Ticks    uint64
}

// NewRunState returns the state at the start of a run.
func NewRunState(lives int, interval time.Duration) RunState {
	return RunState{
		Lives:    lives,
		Interval: interval,
		Running:  true,
	}
}

// Engine advances the grid. Apart from its seeded RNG it holds no state, so
// the same seed and inputs always produce the same run.
type Engine struct {
	rules Rules
	rng   *rand.Rand
}

// NewEngine creates an engine with a deterministic RNG.
func NewEngine(rules Rules, seed int64) *Engine {
	return &Engine{
		rules: rules,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Tick advances one step. The input grid is not modified.
func (e *Engine) Tick(g Grid, lane int, st RunState) (Grid, RunState, []Event) {
	if !st.Running || st.Lives <= 0 {
		return g, st, nil
	}

	next := g.Clone()
	lane = core.Clamp(lane, 0, next.Cols()-1)
	before := st.Score

	st.Ticks++
	st.Score += e.rules.PerTick

	var events []Event
	emit := func(kind EventKind) {
		events = append(events, Event{
			Kind:     kind,
			Tick:     st.Ticks,
			Lane:     lane,
			Score:    st.Score,
			Lives:    st.Lives,
			Interval: st.Interval,
		})
	}

	// Resolve the row next to the player and clear the cell before the shift
	// so the same item can never be evaluated on a later tick.
	bottom := next.Bottom()
	switch next.At(bottom, lane) {
	case CellObstacle:
		st.Lives--
		next.Set(bottom, lane, CellEmpty)
		emit(EventCollision)
	case CellPickup:
		st.Score += e.rules.PickupBonus
		next.Set(bottom, lane, CellEmpty)
		emit(EventPickup)
	}

	next.ShiftDown()

	if st.Lives <= 0 {
		st.Lives = 0
		st.Running = false
		emit(EventGameOver)
		return next, st, events
	}

	e.spawn(&next)

	for range e.crossings(before, st.Score) {
		st.Interval = e.rampDown(st.Interval)
		emit(EventSpeedUp)
	}

	return next, st, events
}

// spawn places at most one item in the top row.
func (e *Engine) spawn(g *Grid) {
	roll := e.rng.Intn(spawnRoll)
	col := e.rng.Intn(g.Cols())

	switch {
	case roll < e.rules.ObstacleBelow:
		g.Set(0, col, CellObstacle)
	case roll >= e.rules.PickupFrom:
		g.Set(0, col, CellPickup)
	}
}

// crossings counts the milestone multiples passed going from before to after.
func (e *Engine) crossings(before, after int) int {
	r := e.rules.Ramp
	if !r.Enabled || r.Milestone <= 0 || after <= before {
		return 0
	}
	return after/r.Milestone - before/r.Milestone
}

// rampDown lowers the base interval by one step, never below the floor and
// never raising an interval that already starts below it.
func (e *Engine) rampDown(interval time.Duration) time.Duration {
	floor := e.rules.Ramp.Floor()
	if interval <= floor {
		return interval
	}
	return max(floor, interval-e.rules.Ramp.Step())
}
