package dodger

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/space-dodger/internal/core"
)

// Visual characters for rendering
const (
	ShipChar     = '▲'
	ObstacleChar = '▼'
	PickupChar   = '◆'
	HeartChar    = '♥'
	LaneMark     = '·'
	LaneMarkOn   = '●'
)

// cellWidth is the number of screen columns per lane.
const cellWidth = 3

// BoardSize returns the screen area needed for a board of rows x cols,
// where rows includes the player row.
func BoardSize(rows, cols int) (w, h int) {
	return cols*cellWidth + 2, rows + 2
}

// Render draws the snapshot centered on dst, with an optional notice line
// below the board.
func Render(dst *core.Screen, snap Snapshot, notice string) {
	field := snap.Grid
	boardW, boardH := BoardSize(field.Rows()+1, field.Cols())

	// HUD + board + lane markers + notice
	needH := boardH + 4
	if dst.Width() < boardW || dst.Height() < needH {
		dst.DrawTextCentered(dst.Height()/2, "Terminal too small", core.ColorYellow)
		return
	}

	top := (dst.Height() - needH) / 2
	left := (dst.Width() - boardW) / 2

	// HUD
	hud := fmt.Sprintf("Score: %d", snap.Score)
	dst.DrawTextColored(left, top, hud, core.ColorBrightWhite)
	hearts := strings.Repeat(string(HeartChar), snap.Lives)
	dst.DrawTextColored(left+boardW-len([]rune(hearts)), top, hearts, core.ColorBrightRed)

	board := core.NewRect(left, top+1, boardW, boardH)
	dst.DrawBox(board, core.ColorGray)

	cellX := func(col int) int { return board.X + 1 + col*cellWidth + cellWidth/2 }

	for row := 0; row < field.Rows(); row++ {
		for col := 0; col < field.Cols(); col++ {
			y := board.Y + 1 + row
			switch field.At(row, col) {
			case CellObstacle:
				dst.SetColored(cellX(col), y, ObstacleChar, core.ColorRed)
			case CellPickup:
				dst.SetColored(cellX(col), y, PickupChar, core.ColorBrightYellow)
			}
		}
	}

	playerY := board.Y + 1 + field.Rows()
	shipColor := core.ColorBrightCyan
	if snap.GameOver {
		shipColor = core.ColorGray
	}
	dst.SetColored(cellX(snap.Lane), playerY, ShipChar, shipColor)

	// Lane markers
	markY := board.Bottom()
	for col := 0; col < field.Cols(); col++ {
		mark, color := LaneMark, core.ColorGray
		if col == snap.Lane {
			mark, color = LaneMarkOn, core.ColorCyan
		}
		dst.SetColored(cellX(col), markY, mark, color)
	}

	statusY := markY + 1
	switch {
	case snap.GameOver:
		dst.DrawTextCentered(statusY, fmt.Sprintf("GAME OVER - Score %d", snap.Score), core.ColorBrightRed)
		dst.DrawTextCentered(statusY+1, "R: Restart  B: Menu  Q: Quit", core.ColorGray)
	case snap.Paused:
		dst.DrawTextCentered(statusY, "PAUSED - P to resume", core.ColorYellow)
	case notice != "":
		dst.DrawTextCentered(statusY, notice, core.ColorBrightYellow)
	}
}
