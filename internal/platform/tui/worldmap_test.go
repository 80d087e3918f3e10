package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/space-dodger/internal/core"
	"github.com/vovakirdan/space-dodger/internal/scores"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		x, y     int
	}{
		{"origin", 0, 0, 36, 10},
		{"north west corner", 90, -180, 0, 0},
		{"south pole clamps", -90, 0, 36, 19},
		{"antimeridian wraps", 0, 180, 0, 10},
		{"default center", 31.0461, 34.8516, 42, 6},
		{"out of range latitude", 120, 12, 38, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := Project(tc.lat, tc.lng, MapWidth, MapHeight)
			if x != tc.x || y != tc.y {
				t.Errorf("Project(%v, %v) = (%d, %d), expected (%d, %d)", tc.lat, tc.lng, x, y, tc.x, tc.y)
			}
		})
	}
}

func TestWorldMapLandMask(t *testing.T) {
	m := NewWorldMap(0, 0)
	if len(m.land) != MapHeight || len(m.land[0]) != MapWidth {
		t.Fatalf("land mask is %dx%d", len(m.land[0]), len(m.land))
	}
	// Antarctica fills the bottom row, the mid Pacific is water.
	if !m.land[MapHeight-1][10] {
		t.Error("expected land at the south pole")
	}
	if x, y := Project(0, -150, MapWidth, MapHeight); m.land[y][x] {
		t.Error("expected water in the Pacific")
	}
}

func TestWorldMapFollowsSelection(t *testing.T) {
	m := NewWorldMap(31.0461, 34.8516)
	located := scores.Entry{Name: "Ada", Score: 90, Lat: 48.85, Lng: 2.35, HasLocation: true}
	plain := scores.Entry{Name: "Bob", Score: 40}
	m.SetEntries([]scores.Entry{located, plain})

	if len(m.Markers()) != 1 {
		t.Fatalf("only located entries become markers, got %d", len(m.Markers()))
	}

	m.OnSelect(located)
	lat, lng, ok := m.Center()
	if !ok || lat != 48.85 || lng != 2.35 {
		t.Errorf("map should focus the selected run, got %v %v %v", lat, lng, ok)
	}

	m.OnSelect(plain)
	lat, lng, ok = m.Center()
	if ok || lat != 31.0461 || lng != 34.8516 {
		t.Errorf("unlocated run should reset to the default center, got %v %v %v", lat, lng, ok)
	}
}

func TestWorldMapDraw(t *testing.T) {
	m := NewWorldMap(31.0461, 34.8516)
	e := scores.Entry{Name: "Ada", Score: 90, Lat: -33.9, Lng: 151.2, HasLocation: true}
	m.SetEntries([]scores.Entry{e})
	m.OnSelect(e)

	scr := core.NewScreen(MapWidth, MapHeight+1)
	m.Draw(scr, 0, 0)

	x, y := Project(e.Lat, e.Lng, MapWidth, MapHeight)
	if scr.Get(x, y) != focusChar {
		t.Errorf("focused marker missing at (%d, %d): %q", x, y, scr.Get(x, y))
	}
	if !strings.Contains(scr.Row(MapHeight), "Ada - 90") {
		t.Errorf("caption = %q", scr.Row(MapHeight))
	}
}
