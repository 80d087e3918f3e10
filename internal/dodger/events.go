package dodger

import "time"

// EventKind identifies something that happened during a tick.
type EventKind int

const (
	EventCollision EventKind = iota + 1
	EventPickup
	EventSpeedUp
	EventGameOver
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventCollision:
		return "collision"
	case EventPickup:
		return "pickup"
	case EventSpeedUp:
		return "speed_up"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Event is emitted by the engine after a tick.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Lane     int
	Score    int
	Lives    int
	Interval time.Duration // Base interval after the event
}

// Observer receives events after each tick.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
