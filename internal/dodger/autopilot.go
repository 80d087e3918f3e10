package dodger

// Autopilot picks lane moves for unattended runs. It looks at the two rows
// nearest the player and steers toward the closest lane that is free of
// obstacles, preferring lanes that hold a pickup.
type Autopilot struct{}

// Decide returns -1, 0 or +1 for the next move.
func (Autopilot) Decide(snap Snapshot) int {
	g := snap.Grid
	if g.Cols() == 0 || g.Rows() == 0 {
		return 0
	}

	best, bestScore := snap.Lane, -1<<30
	for col := 0; col < g.Cols(); col++ {
		// Only one move happens per tick, so lanes further than one step
		// cannot be reached before the bottom row is resolved.
		dist := col - snap.Lane
		if dist < -1 || dist > 1 {
			continue
		}
		score := laneValue(g, col) - abs(dist)
		if score > bestScore {
			best, bestScore = col, score
		}
	}
	return best - snap.Lane
}

func laneValue(g Grid, col int) int {
	v := 0
	switch g.At(g.Bottom(), col) {
	case CellObstacle:
		v -= 100
	case CellPickup:
		v += 10
	}
	switch g.At(g.Bottom()-1, col) {
	case CellObstacle:
		v -= 20
	case CellPickup:
		v += 2
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
