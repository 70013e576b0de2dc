package render

import (
	"github.com/henghegou-crypto/datamodel/internal/geometry"
)

// Minimap panel size in cells, drawn in the top-right corner of the canvas.
const (
	minimapCols = 26
	minimapRows = 9
)

// MinimapOrigin returns the cell position of the minimap's top-left corner
// for a grid of the given width, so the input layer can hit-test clicks.
func MinimapOrigin(gridW int) (int, int) {
	return gridW - minimapCols - 1, 1
}

// MinimapSize returns the panel size in cells.
func MinimapSize() (int, int) { return minimapCols, minimapRows }

func (r *Renderer) drawMinimap(g *Grid, s Scene) {
	ox, oy := MinimapOrigin(g.W)
	if ox < 0 {
		return
	}

	for y := oy; y < oy+minimapRows; y++ {
		for x := ox; x < ox+minimapCols; x++ {
			g.Set(x, y, ' ', styleMinimap)
		}
	}
	drawFrame(g, ox, oy, ox+minimapCols-1, oy+minimapRows-1, styleMinimap)

	bounds := r.minimap.Bounds(s.Entities, s.Ctx)
	for _, e := range s.Entities {
		b := geometry.BoundingBox(e, s.Ctx)
		p := r.minimap.WorldToMap(bounds, b.Center())
		mark := '·'
		if _, ok := s.Selected[e.ID]; ok {
			mark = '•'
		}
		g.Set(ox+int(p.X), oy+int(p.Y), mark, styleMinimapView)
	}

	vf := r.minimap.Viewfinder(s.View, bounds, s.ScreenW, s.ScreenH)
	x0 := ox + int(vf.X)
	y0 := oy + int(vf.Y)
	x1 := ox + int(vf.Right())
	y1 := oy + int(vf.Bottom())
	clampRange(&x0, &x1, ox, ox+minimapCols-1)
	clampRange(&y0, &y1, oy, oy+minimapRows-1)
	for x := x0; x <= x1; x++ {
		if g.At(x, y0) == ' ' {
			g.Set(x, y0, '┄', styleMinimapView)
		}
		if g.At(x, y1) == ' ' {
			g.Set(x, y1, '┄', styleMinimapView)
		}
	}
	for y := y0; y <= y1; y++ {
		if g.At(x0, y) == ' ' {
			g.Set(x0, y, '┆', styleMinimapView)
		}
		if g.At(x1, y) == ' ' {
			g.Set(x1, y, '┆', styleMinimapView)
		}
	}
}

func clampRange(lo, hi *int, min, max int) {
	if *lo < min {
		*lo = min
	}
	if *hi > max {
		*hi = max
	}
	if *hi < *lo {
		*hi = *lo
	}
}
