package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunUntilStepReturnsFalse(t *testing.T) {
	var n int
	s := New(func() bool {
		n++
		return n < 5
	}, func() time.Duration { return time.Millisecond })

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 5 || s.Ticks() != 5 {
		t.Errorf("steps = %d ticks = %d, expected 5", n, s.Ticks())
	}
}

func TestIntervalReadEachTick(t *testing.T) {
	var calls atomic.Int32
	var steps int
	s := New(func() bool {
		steps++
		return steps < 3
	}, func() time.Duration {
		calls.Add(1)
		return time.Millisecond
	})

	_ = s.Run(context.Background())

	// Once before the first tick, then once after each step that continues
	if got := calls.Load(); got != 3 {
		t.Errorf("interval read %d times, expected 3", got)
	}
}

func TestStepsNeverOverlap(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	var n atomic.Int32
	s := New(func() bool {
		cur := inFlight.Add(1)
		if cur > maxInFlight.Load() {
			maxInFlight.Store(cur)
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return n.Add(1) < 10
	}, func() time.Duration { return 0 })

	_ = s.Run(context.Background())

	if maxInFlight.Load() != 1 {
		t.Errorf("max concurrent steps = %d", maxInFlight.Load())
	}
}

func TestStopUnschedulesPendingTick(t *testing.T) {
	var n atomic.Int32
	s := New(func() bool {
		n.Add(1)
		return true
	}, func() time.Duration { return time.Hour })

	s.Start(context.Background())
	time.Sleep(5 * time.Millisecond)
	s.Stop()

	select {
	case <-s.Done():
	default:
		t.Fatal("loop still running after Stop")
	}
	if n.Load() != 0 {
		t.Errorf("pending tick ran %d times", n.Load())
	}
}

func TestNoStepAfterStop(t *testing.T) {
	var mu sync.Mutex
	stopped := false
	var late int

	s := New(func() bool {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			late++
		}
		return true
	}, func() time.Duration { return 100 * time.Microsecond })

	s.Start(context.Background())
	time.Sleep(5 * time.Millisecond)
	s.Stop()

	mu.Lock()
	stopped = true
	mu.Unlock()
	time.Sleep(5 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if late != 0 {
		t.Errorf("%d steps ran after Stop returned", late)
	}
}

func TestStopBeforeRun(t *testing.T) {
	s := New(func() bool {
		t.Error("step ran after Stop")
		return true
	}, func() time.Duration { return 0 })

	s.Stop()
	if err := s.Run(context.Background()); err != nil {
		t.Errorf("Run after Stop: %v", err)
	}
}

func TestContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(func() bool { return true }, func() time.Duration { return time.Hour })

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, expected context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNegativeIntervalRunsImmediately(t *testing.T) {
	var n int
	s := New(func() bool {
		n++
		return n < 3
	}, func() time.Duration { return -time.Second })

	done := make(chan struct{})
	go func() {
		_ = s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("negative interval should be treated as zero")
	}
}
