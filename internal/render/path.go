package render

import (
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

// drawRelationship routes the relationship between the two boxes and draws
// the stroke, end markers and label pill. Picking uses a wide tolerance band
// in the interaction layer, so only the visible stroke is drawn here.
func (r *Renderer) drawRelationship(g *Grid, s Scene, rel model.Relationship, src, dst geometry.Rect) {
	start, end := geometry.BestConnection(src, dst)
	path := geometry.RoutePath(rel.Style, start, end)

	style := styleRel
	if rel.ID == s.SelectedRel {
		style = styleRelSelected
	}

	pts := path.Flatten(32)
	screen := make([]geometry.Point, len(pts))
	for i, p := range pts {
		screen[i] = s.View.WorldToScreen(p)
	}
	r.drawPolylineScreen(g, screen, style)

	r.drawMarker(g, s, rel.SourceMarker, start, style)
	r.drawMarker(g, s, rel.TargetMarker, end, style)

	if rel.Label != "" {
		lx, ly := toCell(s.View.WorldToScreen(path.Label))
		text := " " + rel.Label + " "
		g.Text(lx-len([]rune(text))/2, ly, text, styleLabel)
	}
}

// drawPolyline maps world points through the viewport and draws them.
func (r *Renderer) drawPolyline(g *Grid, s Scene, world []geometry.Point, style styleID) {
	screen := make([]geometry.Point, len(world))
	for i, p := range world {
		screen[i] = s.View.WorldToScreen(p)
	}
	r.drawPolylineScreen(g, screen, style)
}

func (r *Renderer) drawPolylineScreen(g *Grid, screen []geometry.Point, style styleID) {
	for i := 0; i+1 < len(screen); i++ {
		x0, y0 := toCell(screen[i])
		x1, y1 := toCell(screen[i+1])
		drawLine(g, x0, y0, x1, y1, style)
	}
}

// drawLine draws a cell line with box-drawing runes for the axis-aligned
// cases and Bresenham with slash runes otherwise.
func drawLine(g *Grid, x0, y0, x1, y1 int, style styleID) {
	switch {
	case y0 == y1:
		if x1 < x0 {
			x0, x1 = x1, x0
		}
		for x := x0; x <= x1; x++ {
			g.Set(x, y0, '─', style)
		}
	case x0 == x1:
		if y1 < y0 {
			y0, y1 = y1, y0
		}
		for y := y0; y <= y1; y++ {
			g.Set(x0, y, '│', style)
		}
	default:
		dx := abs(x1 - x0)
		dy := abs(y1 - y0)
		sx, sy := 1, 1
		if x0 > x1 {
			sx = -1
		}
		if y0 > y1 {
			sy = -1
		}
		ch := '╲'
		if sx != sy {
			ch = '╱'
		}
		err := dx - dy
		x, y := x0, y0
		for {
			g.Set(x, y, ch, style)
			if x == x1 && y == y1 {
				break
			}
			e2 := 2 * err
			if e2 > -dy {
				err -= dy
				x += sx
			}
			if e2 < dx {
				err += dx
				y += sy
			}
		}
	}
}

// drawMarker places the end-marker glyph just outside the port it decorates.
func (r *Renderer) drawMarker(g *Grid, s Scene, kind model.MarkerKind, port geometry.Port, style styleID) {
	if kind == model.MarkerNone || kind == "" {
		return
	}
	x, y := toCell(s.View.WorldToScreen(port.Pos))
	var glyph rune
	switch kind {
	case model.MarkerArrow:
		glyph = arrowGlyph(port.Side)
	case model.MarkerCrowFoot:
		glyph = crowFootGlyph(port.Side)
	case model.MarkerBar:
		if port.Side.Horizontal() {
			glyph = '┤'
		} else {
			glyph = '┴'
		}
	default:
		return
	}
	g.Set(x, y, glyph, style)
}

func arrowGlyph(side geometry.Side) rune {
	switch side {
	case geometry.SideLeft:
		return '◀'
	case geometry.SideRight:
		return '▶'
	case geometry.SideTop:
		return '▲'
	default:
		return '▼'
	}
}

func crowFootGlyph(side geometry.Side) rune {
	switch side {
	case geometry.SideLeft:
		return '<'
	case geometry.SideRight:
		return '>'
	case geometry.SideTop:
		return '^'
	default:
		return 'v'
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
