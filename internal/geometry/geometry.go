// Package geometry contains the pure functions behind the canvas: entity
// bounding boxes, connection ports, best-port selection and path routing.
// Everything works in world units and has no state.
package geometry

import (
	"math"

	"github.com/henghegou-crypto/datamodel/internal/model"
)

// Point is a position in world units.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned box in world units.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rect.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether two rects overlap. This is the marquee test:
// selection rectangles and bounding boxes count as overlapping unless one
// is strictly beyond the other on either axis.
func (r Rect) Intersects(o Rect) bool {
	return !(r.X > o.Right() || r.Right() < o.X || r.Y > o.Bottom() || r.Bottom() < o.Y)
}

// Entity box metrics. Explicit sizes on the entity override all of these.
const (
	DefaultWidth     = 200.0
	HeaderHeight     = 40.0
	RowHeight        = 20.0
	FooterHeight     = 20.0
	ConceptualWidth  = 140.0
	ConceptualHeight = 60.0

	// CollapsedRows is how many attribute rows a collapsed entity shows
	// before the footer takes over.
	CollapsedRows = 5
)

// Resize floors. Committed sizes never go below these.
const (
	MinEntityWidth  = 150.0
	MinEntityHeight = 80.0
)

// Context carries the per-diagram inputs that bounding boxes depend on.
type Context struct {
	Kind         model.RepresentationKind
	FilterActive bool
}

// VisibleAttributes returns how many attribute rows the entity shows and
// whether a footer affordance (expand/collapse) is present. With an active
// text filter every attribute is shown. Otherwise entities with more than
// CollapsedRows attributes either truncate (collapsed, footer = expand) or
// show everything with a collapse footer.
func VisibleAttributes(e model.EntityNode, ctx Context) (rows int, footer bool) {
	n := len(e.Attributes)
	if ctx.FilterActive {
		return n, false
	}
	if n <= CollapsedRows {
		return n, false
	}
	if e.Collapsed {
		return CollapsedRows, true
	}
	return n, true
}

// BoundingBox computes the entity's world-space box. Priority: explicit
// width/height on the entity, then the fixed conceptual box, then header +
// visible attribute rows + optional footer.
func BoundingBox(e model.EntityNode, ctx Context) Rect {
	if e.Width > 0 && e.Height > 0 {
		return Rect{e.X, e.Y, e.Width, e.Height}
	}
	if ctx.Kind == model.KindConceptual {
		return Rect{e.X, e.Y, ConceptualWidth, ConceptualHeight}
	}
	rows, footer := VisibleAttributes(e, ctx)
	h := HeaderHeight + float64(rows)*RowHeight
	if footer {
		h += FooterHeight
	}
	w := DefaultWidth
	if e.Width > 0 {
		w = e.Width
	}
	if e.Height > 0 {
		h = e.Height
	}
	return Rect{e.X, e.Y, w, h}
}

// Side tags which edge of a box a port sits on.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// Horizontal reports whether the side faces left or right, i.e. the port's
// normal axis is horizontal.
func (s Side) Horizontal() bool { return s == SideLeft || s == SideRight }

// Port is a connection point at the midpoint of a box edge.
type Port struct {
	Pos  Point
	Side Side
}

// Ports returns the four edge-midpoint ports of a box, zero inset, in the
// order top, bottom, left, right.
func Ports(r Rect) [4]Port {
	return [4]Port{
		{Pos: Point{r.X + r.W/2, r.Y}, Side: SideTop},
		{Pos: Point{r.X + r.W/2, r.Bottom()}, Side: SideBottom},
		{Pos: Point{r.X, r.Y + r.H/2}, Side: SideLeft},
		{Pos: Point{r.Right(), r.Y + r.H/2}, Side: SideRight},
	}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// BestConnection evaluates all 16 port pairs between source and target and
// returns the pair with the minimum Euclidean distance. Ties go to the first
// minimum in iteration order.
func BestConnection(source, target Rect) (start, end Port) {
	sp := Ports(source)
	tp := Ports(target)
	best := math.Inf(1)
	for _, s := range sp {
		for _, t := range tp {
			if d := Distance(s.Pos, t.Pos); d < best {
				best = d
				start, end = s, t
			}
		}
	}
	return start, end
}
