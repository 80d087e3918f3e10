// Package input converts discrete button presses and continuous tilt samples
// into player lane changes.
package input

import (
	"sync"

	"github.com/vovakirdan/space-dodger/internal/core"
)

// LaneMover is the single capability both input strategies expose.
type LaneMover interface {
	// SetLaneDelta requests a move of one lane in the sign of direction.
	// Requests that would leave the board are ignored.
	SetLaneDelta(direction int)
}

// Lane is the player's lane index, shared between input handlers and the
// tick. Reads and writes are serialized so a tick never sees a torn value.
type Lane struct {
	mu    sync.Mutex
	value int
	lanes int
}

// NewLane creates a lane clamped to [0, lanes-1].
func NewLane(lanes, start int) *Lane {
	return &Lane{
		lanes: lanes,
		value: core.Clamp(start, 0, lanes-1),
	}
}

// Get returns the current lane.
func (l *Lane) Get() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Lanes returns the number of lanes.
func (l *Lane) Lanes() int {
	return l.lanes
}

// Shift moves the lane by delta if the result stays on the board.
// Returns true if the lane changed.
func (l *Lane) Shift(delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.value + delta
	if delta == 0 || next < 0 || next >= l.lanes {
		return false
	}
	l.value = next
	return true
}

// Reset puts the lane back to start.
func (l *Lane) Reset(start int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = core.Clamp(start, 0, l.lanes-1)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
