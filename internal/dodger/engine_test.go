package dodger

import (
	"testing"
	"time"

	"github.com/vovakirdan/space-dodger/internal/config"
)

// quietRules never spawns anything so tests can place items by hand.
func quietRules() Rules {
	r := RulesFromConfig(config.DefaultConfig())
	r.ObstacleBelow = 0
	r.PickupFrom = spawnRoll
	return r
}

func TestTickCollision(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	g.Set(g.Bottom(), 2, CellObstacle)
	st := NewRunState(3, time.Second)

	next, st, events := e.Tick(g, 2, st)

	if len(events) != 1 || events[0].Kind != EventCollision {
		t.Fatalf("expected a single collision event, got %+v", events)
	}
	if st.Lives != 2 || st.Score != 10 {
		t.Errorf("lives=%d score=%d, expected 2 and 10", st.Lives, st.Score)
	}
	if next.Count(CellObstacle) != 0 {
		t.Error("collided obstacle should be cleared and discarded")
	}
	if g.At(g.Bottom(), 2) != CellObstacle {
		t.Error("Tick should not modify its input grid")
	}
}

func TestTickPickup(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	g.Set(g.Bottom(), 0, CellPickup)
	st := NewRunState(3, time.Second)

	next, st, events := e.Tick(g, 0, st)

	if len(events) != 1 || events[0].Kind != EventPickup {
		t.Fatalf("expected a single pickup event, got %+v", events)
	}
	if st.Score != 60 || st.Lives != 3 {
		t.Errorf("score=%d lives=%d, expected 60 and 3", st.Score, st.Lives)
	}
	if next.Count(CellPickup) != 0 {
		t.Error("pickup should be consumed")
	}
}

func TestTickOtherLaneUntouched(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	g.Set(g.Bottom(), 1, CellObstacle)
	g.Set(g.Bottom(), 3, CellPickup)

	_, st, events := e.Tick(g, 2, NewRunState(3, time.Second))

	if len(events) != 0 {
		t.Errorf("no event expected when the player lane is empty, got %+v", events)
	}
	if st.Lives != 3 || st.Score != 10 {
		t.Errorf("lives=%d score=%d", st.Lives, st.Score)
	}
}

func TestTickShiftsAndDiscardsBottomRow(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	for col := 0; col < 5; col++ {
		if col != 2 {
			g.Set(g.Bottom(), col, CellObstacle)
		}
	}
	g.Set(0, 4, CellPickup)
	g.Set(3, 1, CellObstacle)

	next, _, _ := e.Tick(g, 2, NewRunState(3, time.Second))

	for row := 1; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if next.At(row, col) != g.At(row-1, col) {
				t.Fatalf("cell (%d,%d) should hold old (%d,%d)", row, col, row-1, col)
			}
		}
	}
	if next.Count(CellObstacle) != 1 {
		t.Errorf("old bottom row must not reappear, obstacles = %d", next.Count(CellObstacle))
	}
}

func TestNoGhosting(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	g.Set(g.Bottom()-1, 2, CellObstacle)
	st := NewRunState(3, time.Second)

	var collisions int
	for i := 0; i < 5; i++ {
		var events []Event
		g, st, events = e.Tick(g, 2, st)
		for _, ev := range events {
			if ev.Kind == EventCollision {
				collisions++
			}
		}
	}

	if collisions != 1 {
		t.Errorf("an obstacle must be evaluated exactly once, got %d collisions", collisions)
	}
	if st.Lives != 2 {
		t.Errorf("lives = %d, expected 2", st.Lives)
	}
}

func TestGameOverStopsTicks(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	g.Set(g.Bottom(), 2, CellObstacle)
	st := NewRunState(1, time.Second)

	g, st, events := e.Tick(g, 2, st)

	if len(events) != 2 || events[0].Kind != EventCollision || events[1].Kind != EventGameOver {
		t.Fatalf("expected collision then game over, got %+v", events)
	}
	if st.Running || st.Lives != 0 {
		t.Errorf("run should end with 0 lives, got %+v", st)
	}

	g.Set(g.Bottom(), 2, CellObstacle)
	next, after, events := e.Tick(g, 2, st)
	if len(events) != 0 || after != st || next.At(g.Bottom(), 2) != CellObstacle {
		t.Error("no tick may execute after game over")
	}
}

func TestTickProperties(t *testing.T) {
	cfg := config.DefaultConfig()
	e := NewEngine(RulesFromConfig(cfg), 42)
	g := NewGrid(cfg.FieldRows(), cfg.Grid.Cols)
	st := NewRunState(cfg.Lives, time.Second)

	lane := cfg.Grid.StartLane
	gameOvers := 0
	for i := 0; i < 2000 && st.Running; i++ {
		prevLives := st.Lives
		prevCell := g.At(g.Bottom(), lane)

		var events []Event
		g, st, events = e.Tick(g, lane, st)

		resolved := 0
		for _, ev := range events {
			switch ev.Kind {
			case EventCollision:
				resolved++
				if prevCell != CellObstacle {
					t.Fatalf("tick %d: collision without obstacle", i)
				}
			case EventPickup:
				resolved++
				if prevCell != CellPickup {
					t.Fatalf("tick %d: pickup without pickup cell", i)
				}
			case EventGameOver:
				gameOvers++
				if prevLives != 1 || st.Lives != 0 {
					t.Fatalf("tick %d: game over must fire on 1 -> 0, got %d -> %d", i, prevLives, st.Lives)
				}
			}
		}
		if resolved > 1 {
			t.Fatalf("tick %d: at most one of collision/pickup, got %d", i, resolved)
		}
		if resolved == 0 && prevCell != CellEmpty {
			t.Fatalf("tick %d: %v in the player lane was not resolved", i, prevCell)
		}
		if st.Lives > prevLives {
			t.Fatalf("tick %d: lives increased %d -> %d", i, prevLives, st.Lives)
		}
		if countRow(g, 0) > 1 {
			t.Fatalf("tick %d: more than one spawn", i)
		}

		// Wander to hit things
		lane = (lane + i) % cfg.Grid.Cols
	}

	if st.Running {
		t.Fatal("with random lanes the run should end within 2000 ticks")
	}
	if gameOvers != 1 {
		t.Errorf("expected exactly one game over event, got %d", gameOvers)
	}
}

func countRow(g Grid, row int) int {
	n := 0
	for _, c := range g.Row(row) {
		if c != CellEmpty {
			n++
		}
	}
	return n
}

func TestSpawnThresholds(t *testing.T) {
	tests := []struct {
		name          string
		obstacleBelow int
		pickupFrom    int
		expected      Cell
	}{
		{"always obstacle", 100, 100, CellObstacle},
		{"always pickup", 0, 0, CellPickup},
		{"never", 0, 100, CellEmpty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := quietRules()
			r.ObstacleBelow = tc.obstacleBelow
			r.PickupFrom = tc.pickupFrom
			e := NewEngine(r, 7)

			g := NewGrid(6, 5)
			st := NewRunState(3, time.Second)
			for i := 0; i < 50; i++ {
				g, st, _ = e.Tick(g, 0, st)
				n := countRow(g, 0)
				if tc.expected == CellEmpty && n != 0 {
					t.Fatalf("unexpected spawn %v", g.Row(0))
				}
				if tc.expected != CellEmpty {
					if n != 1 {
						t.Fatalf("expected exactly one spawn, got %v", g.Row(0))
					}
					for _, c := range g.Row(0) {
						if c != CellEmpty && c != tc.expected {
							t.Fatalf("spawned %v, expected %v", c, tc.expected)
						}
					}
				}
				st.Lives = 3 // Keep the run alive
			}
		})
	}
}

func TestSpeedRamp(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	st := NewRunState(3, 1000*time.Millisecond)

	var speedUps int
	for i := 0; i < 10; i++ {
		var events []Event
		g, st, events = e.Tick(g, 0, st)
		for _, ev := range events {
			if ev.Kind == EventSpeedUp {
				speedUps++
			}
		}
	}

	if st.Score != 100 {
		t.Fatalf("score = %d, expected 100", st.Score)
	}
	if st.Interval != 950*time.Millisecond || speedUps != 1 {
		t.Errorf("after 100 points interval = %v (speed-ups %d), expected 950ms", st.Interval, speedUps)
	}

	for i := 0; i < 1000; i++ {
		g, st, _ = e.Tick(g, 0, st)
		if st.Interval < 300*time.Millisecond {
			t.Fatalf("interval %v dropped below floor", st.Interval)
		}
	}
	if st.Interval != 300*time.Millisecond {
		t.Errorf("interval should settle at the floor, got %v", st.Interval)
	}
}

func TestSpeedRampCountsEveryCrossing(t *testing.T) {
	r := quietRules()
	r.PickupBonus = 250
	e := NewEngine(r, 1)

	g := NewGrid(6, 5)
	g.Set(g.Bottom(), 0, CellPickup)
	st := NewRunState(3, 1000*time.Millisecond)
	st.Score = 90

	_, st, events := e.Tick(g, 0, st)

	// 90 -> 350 crosses 100, 200 and 300
	speedUps := 0
	for _, ev := range events {
		if ev.Kind == EventSpeedUp {
			speedUps++
		}
	}
	if speedUps != 3 || st.Interval != 850*time.Millisecond {
		t.Errorf("speed-ups = %d interval = %v, expected 3 and 850ms", speedUps, st.Interval)
	}
}

func TestSpeedRampDisabledAndBelowFloor(t *testing.T) {
	r := quietRules()
	r.Ramp.Enabled = false
	e := NewEngine(r, 1)
	g := NewGrid(6, 5)
	st := NewRunState(3, time.Second)
	for i := 0; i < 30; i++ {
		g, st, _ = e.Tick(g, 0, st)
	}
	if st.Interval != time.Second {
		t.Errorf("disabled ramp changed interval to %v", st.Interval)
	}

	e = NewEngine(quietRules(), 1)
	st = NewRunState(3, 200*time.Millisecond)
	for i := 0; i < 30; i++ {
		g, st, _ = e.Tick(g, 0, st)
	}
	if st.Interval != 200*time.Millisecond {
		t.Errorf("an interval below the floor must not be raised, got %v", st.Interval)
	}
}

func TestEngineDeterminism(t *testing.T) {
	cfg := config.DefaultConfig()
	run := func() (Grid, RunState) {
		e := NewEngine(RulesFromConfig(cfg), 12345)
		g := NewGrid(cfg.FieldRows(), cfg.Grid.Cols)
		st := NewRunState(cfg.Lives, time.Second)
		for i := 0; i < 200; i++ {
			g, st, _ = e.Tick(g, i%cfg.Grid.Cols, st)
		}
		return g, st
	}

	g1, st1 := run()
	g2, st2 := run()
	if st1 != st2 {
		t.Errorf("state mismatch: %+v vs %+v", st1, st2)
	}
	for row := 0; row < g1.Rows(); row++ {
		for col := 0; col < g1.Cols(); col++ {
			if g1.At(row, col) != g2.At(row, col) {
				t.Fatalf("grid mismatch at (%d,%d)", row, col)
			}
		}
	}
}

func TestTickClampsLane(t *testing.T) {
	e := NewEngine(quietRules(), 1)
	g := NewGrid(6, 5)
	g.Set(g.Bottom(), 4, CellObstacle)

	_, st, events := e.Tick(g, 9, NewRunState(3, time.Second))
	if len(events) != 1 || st.Lives != 2 {
		t.Errorf("out of range lane should clamp to the last lane, events %+v", events)
	}
}
