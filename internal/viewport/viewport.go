// Package viewport owns the pan offset and zoom factor and converts between
// screen and world coordinates.
package viewport

import "github.com/henghegou-crypto/datamodel/internal/geometry"

// Zoom clamp ranges. Wheel/gesture zoom uses the wide range; the toolbar
// buttons use the narrow one.
const (
	MinZoom        = 0.1
	MaxZoom        = 5.0
	MinToolbarZoom = 0.5
	MaxToolbarZoom = 2.0
)

// Viewport maps world coordinates to screen coordinates:
// screen = world*zoom + offset.
type Viewport struct {
	Offset geometry.Point
	Zoom   float64
}

// New returns a viewport at the origin with zoom 1.
func New() *Viewport {
	return &Viewport{Zoom: 1}
}

// ScreenToWorld converts a screen point to world units.
func (v *Viewport) ScreenToWorld(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: (p.X - v.Offset.X) / v.Zoom,
		Y: (p.Y - v.Offset.Y) / v.Zoom,
	}
}

// WorldToScreen converts a world point to screen units.
func (v *Viewport) WorldToScreen(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: p.X*v.Zoom + v.Offset.X,
		Y: p.Y*v.Zoom + v.Offset.Y,
	}
}

// PanBy translates the offset directly.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Offset.X += dx
	v.Offset.Y += dy
}

// ZoomAt rescales around a screen anchor so the world point under the anchor
// stays under it. Used for wheel zoom; clamped to [MinZoom, MaxZoom].
func (v *Viewport) ZoomAt(anchor geometry.Point, factor float64) {
	v.zoomAt(anchor, factor, MinZoom, MaxZoom)
}

// ZoomStep is the toolbar-driven variant with the narrower clamp range.
func (v *Viewport) ZoomStep(anchor geometry.Point, factor float64) {
	v.zoomAt(anchor, factor, MinToolbarZoom, MaxToolbarZoom)
}

func (v *Viewport) zoomAt(anchor geometry.Point, factor, lo, hi float64) {
	next := clamp(v.Zoom*factor, lo, hi)
	if next == v.Zoom {
		return
	}
	ratio := next / v.Zoom
	v.Offset.X = anchor.X - (anchor.X-v.Offset.X)*ratio
	v.Offset.Y = anchor.Y - (anchor.Y-v.Offset.Y)*ratio
	v.Zoom = next
}

// CenterOn places the given world point at the center of a screen of the
// given size.
func (v *Viewport) CenterOn(world geometry.Point, screenW, screenH float64) {
	v.Offset.X = screenW/2 - world.X*v.Zoom
	v.Offset.Y = screenH/2 - world.Y*v.Zoom
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
