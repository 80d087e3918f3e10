package input

import (
	"sync"
	"time"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/core"
)

// VirtualTilt emulates a tilt sensor from key presses. A left/right press
// tilts past the move threshold for one debounce window, then the device
// levels out; up/down nudge the Y axis, which stays where it was left.
type VirtualTilt struct {
	mu     sync.Mutex
	cfg    config.TiltConfig
	x      float64
	xUntil time.Time
	y      float64
	hold   time.Duration
	yStep  float64
}

// NewVirtualTilt creates a level device (interval factor 1.0).
func NewVirtualTilt(cfg config.TiltConfig) *VirtualTilt {
	return &VirtualTilt{
		cfg:   cfg,
		y:     (cfg.FastAt + cfg.SlowAt) / 2,
		hold:  max(cfg.Debounce(), cfg.SamplePeriod()),
		yStep: (cfg.SlowAt - cfg.FastAt) / 4,
	}
}

// Push applies a key action. Returns false for actions that do not tilt.
func (v *VirtualTilt) Push(a core.Action, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	tilt := v.cfg.MoveThreshold + 2
	switch a {
	case core.ActionLeft:
		v.x = tilt
		v.xUntil = now.Add(v.hold)
	case core.ActionRight:
		v.x = -tilt
		v.xUntil = now.Add(v.hold)
	case core.ActionUp:
		v.y = min(v.y+v.yStep, v.cfg.SlowAt+v.yStep)
	case core.ActionDown:
		v.y = max(v.y-v.yStep, v.cfg.FastAt-v.yStep)
	default:
		return false
	}
	return true
}

// Read returns the device reading at now.
func (v *VirtualTilt) Read(now time.Time) Sample {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !now.Before(v.xUntil) {
		v.x = 0
	}
	return Sample{X: v.x, Y: v.y, At: now}
}

// Attach polls the device every sample period on its own goroutine.
func (v *VirtualTilt) Attach(sink SampleSink) (detach func()) {
	return poll(v.cfg.SamplePeriod(), func(now time.Time) bool {
		sink.OnSample(v.Read(now))
		return true
	})
}

// poll calls fn every period until fn returns false or detach is called.
// detach blocks until the polling goroutine has exited.
func poll(period time.Duration, fn func(time.Time) bool) (detach func()) {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				// Re-check stop so no sample is delivered after detach.
				select {
				case <-stop:
					return
				default:
				}
				if !fn(now) {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
		<-done
	}
}

var _ SampleSource = (*VirtualTilt)(nil)
