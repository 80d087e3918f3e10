package input

// Discrete moves the player exactly one lane per action. Actions are already
// discrete events, so no debounce is applied.
type Discrete struct {
	lane *Lane
}

// NewDiscrete creates a button-driven mover for lane.
func NewDiscrete(lane *Lane) *Discrete {
	return &Discrete{lane: lane}
}

// SetLaneDelta implements LaneMover.
func (d *Discrete) SetLaneDelta(direction int) {
	d.lane.Shift(sign(direction))
}

var _ LaneMover = (*Discrete)(nil)
