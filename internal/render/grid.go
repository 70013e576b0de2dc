// Package render draws the diagram. It is a pure function of (entities with
// the gesture overlay applied, relationships, viewport, selection,
// interaction affordances) to a styled cell grid; it owns no state of its
// own beyond the precomputed styles.
package render

import (
	"strings"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
)

// Screen pixels per terminal cell. World coordinates are pixel-like; the
// viewport maps world to screen pixels and the grid quantizes pixels to
// cells with a 1:2 aspect.
const (
	CellW = 10.0
	CellH = 20.0
)

type cell struct {
	r  rune
	id styleID
}

// Grid is a fixed-size cell buffer.
type Grid struct {
	W, H  int
	cells []cell
}

// NewGrid allocates a cleared grid.
func NewGrid(w, h int) *Grid {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g := &Grid{W: w, H: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

// Set places a rune at a cell; out-of-bounds writes are dropped.
func (g *Grid) Set(x, y int, r rune, id styleID) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.cells[y*g.W+x] = cell{r: r, id: id}
}

// At returns the rune at a cell, or space when out of bounds.
func (g *Grid) At(x, y int) rune {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return ' '
	}
	return g.cells[y*g.W+x].r
}

// Text writes a string starting at a cell, one cell per rune, clipped to
// the row.
func (g *Grid) Text(x, y int, s string, id styleID) {
	col := x
	for _, r := range s {
		g.Set(col, y, r, id)
		col++
	}
}

// String renders the grid, styling runs of equal style ids with the palette.
func (g *Grid) String(styles Styles) string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		x := 0
		for x < g.W {
			id := g.cells[y*g.W+x].id
			var run strings.Builder
			for x < g.W && g.cells[y*g.W+x].id == id {
				run.WriteRune(g.cells[y*g.W+x].r)
				x++
			}
			if id == styleNone {
				b.WriteString(run.String())
			} else {
				b.WriteString(styles.byID(id).Render(run.String()))
			}
		}
		if y < g.H-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Plain renders the grid without styling, trailing spaces trimmed per row.
func (g *Grid) Plain() string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		var row strings.Builder
		for x := 0; x < g.W; x++ {
			row.WriteRune(g.cells[y*g.W+x].r)
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		if y < g.H-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// toCell quantizes a screen point to a cell coordinate.
func toCell(p geometry.Point) (int, int) {
	return int(p.X / CellW), int(p.Y / CellH)
}

// cellRect quantizes a screen-space rect to cell bounds, inclusive.
func cellRect(r geometry.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = toCell(geometry.Point{X: r.X, Y: r.Y})
	x1, y1 = toCell(geometry.Point{X: r.Right(), Y: r.Bottom()})
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}
