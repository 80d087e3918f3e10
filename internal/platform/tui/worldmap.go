package tui

import (
	_ "embed"
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/space-dodger/internal/core"
	"github.com/vovakirdan/space-dodger/internal/scores"
)

// worldMapData is a 72x20 equirectangular land mask: 5 degrees of longitude
// per column, 9 degrees of latitude per row.
//
//go:embed worldmap.txt
var worldMapData string

// Map dimensions in cells
const (
	MapWidth  = 72
	MapHeight = 20
)

// Map glyphs
const (
	landChar   = ':'
	markerChar = '•'
	focusChar  = '◉'
	crossHChar = '┄'
	crossVChar = '┆'
)

// SelectionObserver is told when the highlighted score entry changes.
type SelectionObserver interface {
	OnSelect(e scores.Entry)
}

// Project maps a coordinate onto a w x h equirectangular grid.
func Project(lat, lng float64, w, h int) (x, y int) {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	lat = core.ClampF(lat, -90, 90)

	x = core.Clamp(int(lng/360*float64(w)), 0, w-1)
	y = core.Clamp(int((90-lat)/180*float64(h)), 0, h-1)
	return x, y
}

// WorldMap draws geo-tagged runs over a coarse land mask. It follows the
// score table selection: a located entry is focused with a crosshair, any
// other entry recenters on the default view.
type WorldMap struct {
	land      [][]bool
	markers   []scores.Entry
	centerLat float64
	centerLng float64
	focus     scores.Entry
	focused   bool
}

// NewWorldMap creates a map resting on the given default center.
func NewWorldMap(centerLat, centerLng float64) *WorldMap {
	return &WorldMap{
		land:      parseLand(worldMapData),
		centerLat: centerLat,
		centerLng: centerLng,
	}
}

func parseLand(data string) [][]bool {
	land := make([][]bool, MapHeight)
	lines := strings.Split(data, "\n")
	for y := range land {
		land[y] = make([]bool, MapWidth)
		if y >= len(lines) {
			continue
		}
		for x, r := range []rune(lines[y]) {
			if x < MapWidth && r == '#' {
				land[y][x] = true
			}
		}
	}
	return land
}

// SetEntries replaces the markers. Entries without a location are skipped.
func (m *WorldMap) SetEntries(entries []scores.Entry) {
	m.markers = scores.Located(entries)
	m.focused = false
}

// OnSelect implements SelectionObserver.
func (m *WorldMap) OnSelect(e scores.Entry) {
	if len(scores.Located([]scores.Entry{e})) == 1 {
		m.focus = e
		m.focused = true
		return
	}
	m.focused = false
}

// Center returns the point the map is focused on and whether it is a run
// location rather than the default center.
func (m *WorldMap) Center() (lat, lng float64, located bool) {
	if m.focused {
		return m.focus.Lat, m.focus.Lng, true
	}
	return m.centerLat, m.centerLng, false
}

// Markers returns the located entries on the map.
func (m *WorldMap) Markers() []scores.Entry {
	return m.markers
}

// Draw renders the map at (x0, y0) plus a caption line below it.
func (m *WorldMap) Draw(dst *core.Screen, x0, y0 int) {
	for y := 0; y < MapHeight; y++ {
		for x := 0; x < MapWidth; x++ {
			if m.land[y][x] {
				dst.SetColored(x0+x, y0+y, landChar, core.ColorGreen)
			}
		}
	}

	lat, lng, located := m.Center()
	cx, cy := Project(lat, lng, MapWidth, MapHeight)
	for x := 0; x < MapWidth; x++ {
		if !m.land[cy][x] {
			dst.SetColored(x0+x, y0+cy, crossHChar, core.ColorBlue)
		}
	}
	for y := 0; y < MapHeight; y++ {
		if !m.land[y][cx] {
			dst.SetColored(x0+cx, y0+y, crossVChar, core.ColorBlue)
		}
	}

	for _, e := range m.markers {
		x, y := Project(e.Lat, e.Lng, MapWidth, MapHeight)
		dst.SetColored(x0+x, y0+y, markerChar, core.ColorBrightYellow)
	}

	caption := fmt.Sprintf("Center %.4f, %.4f", lat, lng)
	if located {
		dst.SetColored(x0+cx, y0+cy, focusChar, core.ColorBrightRed)
		caption = fmt.Sprintf("%s - %d at %.4f, %.4f", m.focus.Name, m.focus.Score, lat, lng)
	}
	dst.DrawTextColored(x0, y0+MapHeight, caption, core.ColorGray)
}

// View renders the map as a styled string.
func (m *WorldMap) View() string {
	scr := core.NewScreen(MapWidth, MapHeight+1)
	m.Draw(scr, 0, 0)
	return RenderScreen(scr)
}

var _ SelectionObserver = (*WorldMap)(nil)
