package input

import (
	"sync"
	"time"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/core"
)

// Sample is one reading of the tilt sensor. X is the left/right axis
// (positive tilts left), Y the toward/away axis.
type Sample struct {
	X, Y float64
	At   time.Time // Zero means "now" according to the receiver's clock
}

// SampleSink consumes sensor readings. The game core depends only on this.
type SampleSink interface {
	OnSample(Sample)
}

// SampleSource is a host-provided sensor. Attach starts delivering samples to
// sink; the returned detach stops delivery and returns once no further
// sample will be sent.
type SampleSource interface {
	Attach(sink SampleSink) (detach func())
}

// Tilt is the continuous input strategy. A sustained tilt beyond the
// threshold moves at most once per debounce window; the Y axis scales the
// tick interval within [FastFactor, SlowFactor].
type Tilt struct {
	mu       sync.Mutex
	lane     *Lane
	cfg      config.TiltConfig
	now      func() time.Time
	lastMove time.Time
	factor   float64
}

// NewTilt creates a tilt-driven mover for lane.
func NewTilt(lane *Lane, cfg config.TiltConfig) *Tilt {
	return &Tilt{
		lane:   lane,
		cfg:    cfg,
		now:    time.Now,
		factor: 1.0,
	}
}

// WithClock replaces the clock used for samples without a timestamp.
func (t *Tilt) WithClock(now func() time.Time) *Tilt {
	t.now = now
	return t
}

// OnSample implements SampleSink.
func (t *Tilt) OnSample(s Sample) {
	t.mu.Lock()
	defer t.mu.Unlock()

	at := s.At
	if at.IsZero() {
		at = t.now()
	}

	switch {
	case s.X > t.cfg.MoveThreshold:
		t.moveLocked(-1, at)
	case s.X < -t.cfg.MoveThreshold:
		t.moveLocked(1, at)
	}

	t.factor = FactorFor(t.cfg, s.Y)
}

// SetLaneDelta implements LaneMover with the same debounce as samples.
func (t *Tilt) SetLaneDelta(direction int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.moveLocked(sign(direction), t.now())
}

func (t *Tilt) moveLocked(direction int, at time.Time) {
	if !t.lastMove.IsZero() && at.Sub(t.lastMove) < t.cfg.Debounce() {
		return
	}
	if t.lane.Shift(direction) {
		t.lastMove = at
	}
}

// Factor returns the current interval multiplier.
func (t *Tilt) Factor() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.factor
}

// Scale applies the current factor to a base interval.
func (t *Tilt) Scale(base time.Duration) time.Duration {
	return time.Duration(float64(base) * t.Factor())
}

// FactorFor maps the Y axis linearly from FastFactor at FastAt to SlowFactor
// at SlowAt, clamped to that band.
func FactorFor(cfg config.TiltConfig, y float64) float64 {
	span := cfg.SlowAt - cfg.FastAt
	if span <= 0 {
		return 1.0
	}
	pos := core.ClampF((y-cfg.FastAt)/span, 0, 1)
	return cfg.FastFactor + pos*(cfg.SlowFactor-cfg.FastFactor)
}

var (
	_ LaneMover  = (*Tilt)(nil)
	_ SampleSink = (*Tilt)(nil)
)
