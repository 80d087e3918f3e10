// Package loop drives a game session in real time. It owns the only timer:
// ticks run one at a time on a single goroutine and the delay before the
// next tick is asked for again after every step.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// StepFunc runs one tick. Returning false ends the loop.
type StepFunc func() bool

// IntervalFunc returns the delay before the next tick.
type IntervalFunc func() time.Duration

// Scheduler runs a StepFunc on a self-rescheduling timer.
type Scheduler struct {
	step     StepFunc
	interval IntervalFunc

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  atomic.Bool
	ticks    atomic.Uint64
}

// New creates a scheduler. Nothing runs until Run or Start.
func New(step StepFunc, interval IntervalFunc) *Scheduler {
	return &Scheduler{
		step:     step,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks until the step returns false, Stop is called or ctx is done.
// The first tick fires one interval after Run is called. Run returns
// ctx.Err() on cancellation and nil otherwise.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	defer close(s.done)

	timer := time.NewTimer(s.next())
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		// A stop that raced the timer wins.
		select {
		case <-s.stopChan:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.ticks.Add(1)
		if !s.step() {
			return nil
		}
		timer.Reset(s.next())
	}
}

// Start runs the loop on its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	go func() { _ = s.Run(ctx) }()
}

// Stop unschedules any pending tick. If the loop is running, Stop waits for
// an in-flight step to finish; no step starts after Stop returns.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	if s.started.Load() {
		<-s.done
	}
}

// Done is closed when a started loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Ticks returns the number of steps run so far.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

func (s *Scheduler) next() time.Duration {
	d := s.interval()
	if d < 0 {
		return 0
	}
	return d
}
