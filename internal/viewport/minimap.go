package viewport

import (
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

// Minimap metrics, in minimap units.
const (
	MinimapPadding = 50.0  // world padding around the entity bounds
	MinWorldSpan   = 100.0 // floor on either world dimension; avoids a
	// near-zero scale when all entities cluster at one point
)

// Minimap derives a scaled overview from the entity positions and the main
// viewport. Size is fixed; one uniform scale maps world to minimap.
type Minimap struct {
	Width  float64
	Height float64
}

// Bounds returns the padded world bounding box over every entity, with both
// spans floored at MinWorldSpan. An empty diagram gets a centered default box.
func (m Minimap) Bounds(entities []model.EntityNode, ctx geometry.Context) geometry.Rect {
	if len(entities) == 0 {
		return geometry.Rect{X: -MinWorldSpan / 2, Y: -MinWorldSpan / 2, W: MinWorldSpan, H: MinWorldSpan}
	}
	first := geometry.BoundingBox(entities[0], ctx)
	minX, minY := first.X, first.Y
	maxX, maxY := first.Right(), first.Bottom()
	for _, e := range entities[1:] {
		b := geometry.BoundingBox(e, ctx)
		if b.X < minX {
			minX = b.X
		}
		if b.Y < minY {
			minY = b.Y
		}
		if b.Right() > maxX {
			maxX = b.Right()
		}
		if b.Bottom() > maxY {
			maxY = b.Bottom()
		}
	}
	r := geometry.Rect{
		X: minX - MinimapPadding,
		Y: minY - MinimapPadding,
		W: maxX - minX + 2*MinimapPadding,
		H: maxY - minY + 2*MinimapPadding,
	}
	if r.W < MinWorldSpan {
		r.X -= (MinWorldSpan - r.W) / 2
		r.W = MinWorldSpan
	}
	if r.H < MinWorldSpan {
		r.Y -= (MinWorldSpan - r.H) / 2
		r.H = MinWorldSpan
	}
	return r
}

// Scale returns the uniform world→minimap factor: the larger world dimension
// fits the minimap size.
func (m Minimap) Scale(bounds geometry.Rect) float64 {
	sx := m.Width / bounds.W
	sy := m.Height / bounds.H
	if sx < sy {
		return sx
	}
	return sy
}

// WorldToMap projects a world point into minimap coordinates.
func (m Minimap) WorldToMap(bounds geometry.Rect, p geometry.Point) geometry.Point {
	s := m.Scale(bounds)
	return geometry.Point{X: (p.X - bounds.X) * s, Y: (p.Y - bounds.Y) * s}
}

// MapToWorld inverts WorldToMap.
func (m Minimap) MapToWorld(bounds geometry.Rect, p geometry.Point) geometry.Point {
	s := m.Scale(bounds)
	return geometry.Point{X: p.X/s + bounds.X, Y: p.Y/s + bounds.Y}
}

// JumpTo centers the main viewport on the world point under a minimap click.
func (m Minimap) JumpTo(v *Viewport, bounds geometry.Rect, mapPt geometry.Point, screenW, screenH float64) {
	v.CenterOn(m.MapToWorld(bounds, mapPt), screenW, screenH)
}

// DragBy pans the main viewport for a viewfinder drag of (dx,dy) minimap
// units: the offset moves inversely, scaled by 1/scale * zoom.
func (m Minimap) DragBy(v *Viewport, bounds geometry.Rect, dx, dy float64) {
	s := m.Scale(bounds)
	v.PanBy(-dx/s*v.Zoom, -dy/s*v.Zoom)
}

// Viewfinder returns the minimap rectangle covering the visible world area
// for a screen of the given size.
func (m Minimap) Viewfinder(v *Viewport, bounds geometry.Rect, screenW, screenH float64) geometry.Rect {
	tl := m.WorldToMap(bounds, v.ScreenToWorld(geometry.Point{}))
	br := m.WorldToMap(bounds, v.ScreenToWorld(geometry.Point{X: screenW, Y: screenH}))
	return geometry.Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y}
}
