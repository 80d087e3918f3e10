package dodger

import (
	"sync"
	"time"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/input"
)

// Session is one run of the game: grid, run state, lane and the input
// strategy chosen by the mode. All methods are safe for concurrent use; a
// tick reads the lane under the session lock so input arriving between ticks
// is applied as a whole (last write before the tick wins).
type Session struct {
	mu        sync.Mutex
	cfg       config.DodgerConfig
	mode      config.ModeConfig
	engine    *Engine
	grid      Grid
	state     RunState
	lane      *input.Lane
	mover     input.LaneMover
	tilt      *input.Tilt
	observers []Observer
	detach    func()
	paused    bool
	stopped   bool
}

// NewSession starts a run in the given mode.
func NewSession(cfg config.DodgerConfig, mode config.ModeConfig, seed int64) *Session {
	lane := input.NewLane(cfg.Grid.Cols, cfg.Grid.StartLane)

	s := &Session{
		cfg:    cfg,
		mode:   mode,
		engine: NewEngine(RulesFromConfig(cfg), seed),
		grid:   NewGrid(cfg.FieldRows(), cfg.Grid.Cols),
		state:  NewRunState(cfg.Lives, mode.Interval()),
		lane:   lane,
	}

	if mode.Input == config.InputTilt {
		s.tilt = input.NewTilt(lane, cfg.Tilt)
		s.mover = s.tilt
	} else {
		s.mover = input.NewDiscrete(lane)
	}
	return s
}

// Mode returns the mode the session was started with.
func (s *Session) Mode() config.ModeConfig {
	return s.mode
}

// Config returns the game configuration.
func (s *Session) Config() config.DodgerConfig {
	return s.cfg
}

// Subscribe registers an observer for tick events.
func (s *Session) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// AttachSource connects a sensor to the tilt adapter. It is a no-op for
// button modes. The source is detached by Stop or when the run ends.
func (s *Session) AttachSource(src input.SampleSource) {
	s.mu.Lock()
	if s.tilt == nil || s.stopped || !s.state.Running {
		s.mu.Unlock()
		return
	}
	old := s.detach
	s.detach = nil
	s.mu.Unlock()

	// Detach outside the lock: a source may be blocked delivering a sample.
	if old != nil {
		old()
	}
	detach := src.Attach(s)

	s.mu.Lock()
	if s.stopped || !s.state.Running {
		s.mu.Unlock()
		detach()
		return
	}
	s.detach = detach
	s.mu.Unlock()
}

// OnSample implements input.SampleSink. Samples are dropped once the run is
// over or the session is stopped, and in button modes.
func (s *Session) OnSample(smp input.Sample) {
	if !s.accepting() || s.tilt == nil {
		return
	}
	s.tilt.OnSample(smp)
}

// Move requests a one-lane move through the mode's input strategy.
func (s *Session) Move(direction int) {
	if !s.accepting() {
		return
	}
	s.mover.SetLaneDelta(direction)
}

func (s *Session) accepting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped && !s.paused && s.state.Running
}

// Advance runs one tick and notifies observers. It returns the events of
// the tick; nothing happens once the run is over, paused or stopped.
func (s *Session) Advance() []Event {
	s.mu.Lock()
	if s.stopped || s.paused || !s.state.Running {
		s.mu.Unlock()
		return nil
	}

	var events []Event
	s.grid, s.state, events = s.engine.Tick(s.grid, s.lane.Get(), s.state)

	var detach func()
	if !s.state.Running {
		detach, s.detach = s.detach, nil
	}
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	if detach != nil {
		detach()
	}
	for _, e := range events {
		for _, o := range observers {
			o.OnEvent(e)
		}
	}
	return events
}

// NextInterval returns the delay before the next tick: the ramped base
// interval, scaled by the tilt factor in tilt modes. It is read at each
// scheduling decision, so sensor changes apply from the next tick on.
func (s *Session) NextInterval() time.Duration {
	s.mu.Lock()
	base := s.state.Interval
	s.mu.Unlock()

	if s.tilt != nil {
		return s.tilt.Scale(base)
	}
	return base
}

// Running reports whether ticks should still be scheduled.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Running && !s.stopped
}

// TogglePause pauses or resumes the run. Returns the new paused state.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Running && !s.stopped {
		s.paused = !s.paused
	}
	return s.paused
}

// Stop ends the session: no tick runs afterwards and any attached sensor is
// detached before Stop returns.
func (s *Session) Stop() {
	s.mu.Lock()
	s.stopped = true
	detach := s.detach
	s.detach = nil
	s.mu.Unlock()

	if detach != nil {
		detach()
	}
}

// State returns a copy of the run state.
func (s *Session) State() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot captures the presentation-facing state after the last tick.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	factor := 1.0
	if s.tilt != nil {
		factor = s.tilt.Factor()
	}

	return Snapshot{
		Tick:       s.state.Ticks,
		Mode:       s.mode.ID,
		Score:      s.state.Score,
		Lives:      s.state.Lives,
		MaxLives:   s.cfg.Lives,
		Lane:       s.lane.Get(),
		Interval:   s.state.Interval,
		TiltFactor: factor,
		Running:    s.state.Running && !s.stopped,
		GameOver:   !s.state.Running,
		Paused:     s.paused,
		Grid:       s.grid.Clone(),
	}
}

var _ input.SampleSink = (*Session)(nil)
