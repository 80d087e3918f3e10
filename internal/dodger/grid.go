// Package dodger implements the falling-object dodging game: the grid model,
// the pure tick engine and the session that ties them to input and observers.
package dodger

// Cell is the content of one grid position.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellObstacle
	CellPickup
)

// String returns a human-readable name for the cell.
func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellObstacle:
		return "obstacle"
	case CellPickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// Grid is the falling field above the player row. Row 0 is the top; the last
// row is adjacent to the player and is the only row evaluated for collisions.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) Grid {
	return Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return g.rows
}

// Cols returns the number of lanes.
func (g Grid) Cols() int {
	return g.cols
}

// Bottom returns the index of the row adjacent to the player.
func (g Grid) Bottom() int {
	return g.rows - 1
}

func (g Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col). Out-of-range positions read as empty.
func (g Grid) At(row, col int) Cell {
	if !g.inBounds(row, col) {
		return CellEmpty
	}
	return g.cells[row*g.cols+col]
}

// Set writes a cell. Out-of-range positions are ignored.
func (g *Grid) Set(row, col int, c Cell) {
	if !g.inBounds(row, col) {
		return
	}
	g.cells[row*g.cols+col] = c
}

// Row returns a copy of one row.
func (g Grid) Row(row int) []Cell {
	out := make([]Cell, g.cols)
	if row < 0 || row >= g.rows {
		return out
	}
	copy(out, g.cells[row*g.cols:(row+1)*g.cols])
	return out
}

// Clone returns an independent copy of the grid.
func (g Grid) Clone() Grid {
	c := Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// ShiftDown moves every row down by one. The bottom row is discarded and an
// empty row appears at the top.
func (g *Grid) ShiftDown() {
	if g.rows == 0 {
		return
	}
	copy(g.cells[g.cols:], g.cells[:len(g.cells)-g.cols])
	clear(g.cells[:g.cols])
}

// Clear empties every cell.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Count returns how many cells hold c.
func (g Grid) Count(c Cell) int {
	n := 0
	for _, v := range g.cells {
		if v == c {
			n++
		}
	}
	return n
}
