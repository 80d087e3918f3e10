package input

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/core"
)

func TestLaneShiftClamps(t *testing.T) {
	lane := NewLane(5, 2)

	tests := []struct {
		name     string
		delta    int
		moved    bool
		expected int
	}{
		{"left", -1, true, 1},
		{"left again", -1, true, 0},
		{"past left edge", -1, false, 0},
		{"zero", 0, false, 0},
		{"right", 1, true, 1},
		{"jump past right edge", 10, false, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := lane.Shift(tc.delta); got != tc.moved {
				t.Errorf("Shift(%d) = %v, expected %v", tc.delta, got, tc.moved)
			}
			if lane.Get() != tc.expected {
				t.Errorf("lane = %d, expected %d", lane.Get(), tc.expected)
			}
		})
	}
}

func TestNewLaneClampsStart(t *testing.T) {
	if got := NewLane(3, 7).Get(); got != 2 {
		t.Errorf("start lane should clamp to 2, got %d", got)
	}
	if got := NewLane(3, -1).Get(); got != 0 {
		t.Errorf("start lane should clamp to 0, got %d", got)
	}
}

func TestDiscreteMovesOneLane(t *testing.T) {
	lane := NewLane(5, 2)
	d := NewDiscrete(lane)

	d.SetLaneDelta(5) // Magnitude is ignored
	if lane.Get() != 3 {
		t.Errorf("expected one lane right, got %d", lane.Get())
	}

	// No debounce: back-to-back presses all apply
	d.SetLaneDelta(-1)
	d.SetLaneDelta(-1)
	d.SetLaneDelta(-1)
	if lane.Get() != 0 {
		t.Errorf("expected lane 0, got %d", lane.Get())
	}

	d.SetLaneDelta(-1)
	if lane.Get() != 0 {
		t.Errorf("move past edge should be ignored, got %d", lane.Get())
	}
}

func TestLaneConcurrentShift(t *testing.T) {
	lane := NewLane(1000, 500)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); lane.Shift(1) }()
		go func() { defer wg.Done(); lane.Shift(-1) }()
	}
	wg.Wait()

	if lane.Get() != 500 {
		t.Errorf("balanced concurrent moves should net zero, got %d", lane.Get())
	}
}

func TestTiltDebounce(t *testing.T) {
	cfg := config.DefaultConfig().Tilt
	lane := NewLane(5, 2)
	tilt := NewTilt(lane, cfg)
	t0 := time.Unix(1000, 0)

	// Two strong left tilts inside the debounce window: one move
	tilt.OnSample(Sample{X: 5, Y: 6, At: t0})
	tilt.OnSample(Sample{X: 5, Y: 6, At: t0.Add(100 * time.Millisecond)})
	if lane.Get() != 1 {
		t.Fatalf("expected exactly one move within debounce, lane = %d", lane.Get())
	}

	// After the window, the sustained tilt moves again
	tilt.OnSample(Sample{X: 5, Y: 6, At: t0.Add(250 * time.Millisecond)})
	if lane.Get() != 0 {
		t.Errorf("expected a second move after debounce, lane = %d", lane.Get())
	}
}

func TestTiltThreshold(t *testing.T) {
	cfg := config.DefaultConfig().Tilt
	lane := NewLane(5, 2)
	tilt := NewTilt(lane, cfg)
	t0 := time.Unix(1000, 0)

	tilt.OnSample(Sample{X: 2.9, At: t0})
	tilt.OnSample(Sample{X: -3.0, At: t0.Add(time.Second)})
	if lane.Get() != 2 {
		t.Errorf("tilts within threshold should not move, lane = %d", lane.Get())
	}

	tilt.OnSample(Sample{X: -3.5, At: t0.Add(2 * time.Second)})
	if lane.Get() != 3 {
		t.Errorf("negative X should move right, lane = %d", lane.Get())
	}
}

func TestTiltEdgeDoesNotArmDebounce(t *testing.T) {
	cfg := config.DefaultConfig().Tilt
	lane := NewLane(5, 0)
	tilt := NewTilt(lane, cfg)
	t0 := time.Unix(1000, 0)

	// Blocked by the edge: no move, so the debounce window does not start
	tilt.OnSample(Sample{X: 5, At: t0})
	tilt.OnSample(Sample{X: -5, At: t0.Add(10 * time.Millisecond)})
	if lane.Get() != 1 {
		t.Errorf("a blocked move should not debounce the next one, lane = %d", lane.Get())
	}
}

func TestTiltSetLaneDeltaUsesClock(t *testing.T) {
	cfg := config.DefaultConfig().Tilt
	lane := NewLane(5, 2)
	now := time.Unix(1000, 0)
	tilt := NewTilt(lane, cfg).WithClock(func() time.Time { return now })

	tilt.SetLaneDelta(1)
	tilt.SetLaneDelta(1)
	if lane.Get() != 3 {
		t.Errorf("expected one move within debounce, lane = %d", lane.Get())
	}

	now = now.Add(300 * time.Millisecond)
	tilt.SetLaneDelta(1)
	if lane.Get() != 4 {
		t.Errorf("expected move after debounce, lane = %d", lane.Get())
	}
}

func TestFactorFor(t *testing.T) {
	cfg := config.DefaultConfig().Tilt

	tests := []struct {
		y        float64
		expected float64
	}{
		{-2, 0.5},
		{3, 0.5},
		{6, 1.0},
		{9, 1.5},
		{12, 1.5},
		{4.5, 0.75},
	}

	for _, tc := range tests {
		if got := FactorFor(cfg, tc.y); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("FactorFor(%v) = %v, expected %v", tc.y, got, tc.expected)
		}
	}
}

func TestTiltScale(t *testing.T) {
	cfg := config.DefaultConfig().Tilt
	tilt := NewTilt(NewLane(5, 2), cfg)

	if got := tilt.Scale(time.Second); got != time.Second {
		t.Errorf("factor should start at 1.0, got %v", got)
	}

	tilt.OnSample(Sample{Y: 10, At: time.Unix(1, 0)})
	if got := tilt.Scale(time.Second); got != 1500*time.Millisecond {
		t.Errorf("Scale() = %v, expected 1.5s", got)
	}
}

func TestVirtualTilt(t *testing.T) {
	cfg := config.DefaultConfig().Tilt
	v := NewVirtualTilt(cfg)
	t0 := time.Unix(1000, 0)

	if s := v.Read(t0); s.X != 0 || FactorFor(cfg, s.Y) != 1.0 {
		t.Errorf("new device should be level, got %+v", s)
	}

	if !v.Push(core.ActionLeft, t0) {
		t.Fatal("left should be a tilt action")
	}
	if s := v.Read(t0.Add(100 * time.Millisecond)); s.X <= cfg.MoveThreshold {
		t.Errorf("left press should tilt past threshold, got %+v", s)
	}
	if s := v.Read(t0.Add(time.Second)); s.X != 0 {
		t.Errorf("device should level out after hold, got %+v", s)
	}

	for range 10 {
		v.Push(core.ActionUp, t0)
	}
	if f := FactorFor(cfg, v.Read(t0).Y); f != cfg.SlowFactor {
		t.Errorf("tilting away should reach slow factor, got %v", f)
	}

	if v.Push(core.ActionPause, t0) {
		t.Error("pause is not a tilt action")
	}
}

func TestVirtualTiltThroughTiltAdapter(t *testing.T) {
	cfg := config.DefaultConfig().Tilt
	lane := NewLane(5, 2)
	tilt := NewTilt(lane, cfg)
	v := NewVirtualTilt(cfg)
	t0 := time.Unix(1000, 0)

	// One press sampled every 50ms yields exactly one move
	v.Push(core.ActionRight, t0)
	for i := 0; i < 6; i++ {
		tilt.OnSample(v.Read(t0.Add(time.Duration(i) * cfg.SamplePeriod())))
	}
	if lane.Get() != 3 {
		t.Errorf("expected a single move to lane 3, got %d", lane.Get())
	}
}

func TestParseFeed(t *testing.T) {
	data := "# x,y\n4.0,6\nnot,a,number\n-4, 9.5\n\n1\n0,0\n"

	samples, err := ParseFeed(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseFeed() failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 valid samples, got %d: %+v", len(samples), samples)
	}
	if samples[1].X != -4 || samples[1].Y != 9.5 {
		t.Errorf("unexpected second sample %+v", samples[1])
	}
}

type collectSink struct {
	mu      sync.Mutex
	samples []Sample
}

func (c *collectSink) OnSample(s Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, s)
}

func (c *collectSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}

func TestFeedAttachDeliversAll(t *testing.T) {
	feed := NewFeed([]Sample{{X: 1}, {X: 2}, {X: 3}}, time.Millisecond)
	sink := &collectSink{}

	detach := feed.Attach(sink)
	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	detach()

	if sink.count() != 3 {
		t.Fatalf("expected 3 samples, got %d", sink.count())
	}
	if sink.samples[2].X != 3 || sink.samples[2].At.IsZero() {
		t.Errorf("samples should arrive in order and be timestamped: %+v", sink.samples[2])
	}
}

func TestDetachStopsDelivery(t *testing.T) {
	v := NewVirtualTilt(config.DefaultConfig().Tilt)
	sink := &collectSink{}

	detach := v.Attach(sink)
	detach()
	n := sink.count()
	time.Sleep(150 * time.Millisecond)

	if sink.count() != n {
		t.Errorf("no samples should arrive after detach: %d -> %d", n, sink.count())
	}
	detach() // Second call is a no-op
}
