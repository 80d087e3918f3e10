package dodger

import "testing"

func TestGridSetAt(t *testing.T) {
	g := NewGrid(6, 5)

	g.Set(2, 3, CellObstacle)
	if g.At(2, 3) != CellObstacle {
		t.Errorf("At(2, 3) = %v, expected obstacle", g.At(2, 3))
	}

	// Out of range is ignored / reads empty
	g.Set(-1, 0, CellPickup)
	g.Set(6, 0, CellPickup)
	g.Set(0, 5, CellPickup)
	if g.Count(CellPickup) != 0 {
		t.Error("out of range Set should be ignored")
	}
	if g.At(10, 10) != CellEmpty {
		t.Error("out of range At should read empty")
	}
}

func TestGridShiftDown(t *testing.T) {
	g := NewGrid(4, 3)
	g.Set(0, 0, CellObstacle)
	g.Set(1, 1, CellPickup)
	g.Set(3, 2, CellObstacle) // Bottom row, discarded by the shift

	g.ShiftDown()

	if g.At(1, 0) != CellObstacle || g.At(2, 1) != CellPickup {
		t.Errorf("rows should move down by one: %v %v", g.Row(1), g.Row(2))
	}
	for col := 0; col < 3; col++ {
		if g.At(0, col) != CellEmpty {
			t.Errorf("top row should be empty after shift, got %v", g.Row(0))
		}
	}
	if g.Count(CellObstacle) != 1 {
		t.Errorf("bottom row should be discarded, obstacles = %d", g.Count(CellObstacle))
	}
}

func TestGridCloneIndependent(t *testing.T) {
	g := NewGrid(3, 3)
	c := g.Clone()
	c.Set(1, 1, CellObstacle)

	if g.At(1, 1) != CellEmpty {
		t.Error("Clone should not share storage")
	}
}

func TestGridRowCopy(t *testing.T) {
	g := NewGrid(2, 3)
	g.Set(1, 2, CellPickup)

	row := g.Row(1)
	row[2] = CellEmpty
	if g.At(1, 2) != CellPickup {
		t.Error("Row should return a copy")
	}
	if len(g.Row(5)) != 3 {
		t.Error("out of range Row should return an empty row of full width")
	}
}

func TestCellString(t *testing.T) {
	if CellObstacle.String() != "obstacle" || CellPickup.String() != "pickup" || CellEmpty.String() != "empty" {
		t.Error("unexpected cell names")
	}
}
