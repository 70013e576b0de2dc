package geometry

import (
	"math"

	"github.com/henghegou-crypto/datamodel/internal/model"
)

// Path is a routed relationship: either a polyline or a single cubic Bezier,
// plus the point where the label sits.
type Path struct {
	Points []Point // polyline vertices; for a Bezier these are start and end
	Bezier bool
	C1, C2 Point // Bezier control points, valid when Bezier is true
	Label  Point
}

// RoutePath routes a relationship between two ports. Straight draws a direct
// line with the label at the midpoint. Curve draws a cubic Bezier whose
// control points push out of each port along its normal axis by half the span
// on that axis, label at t=0.5. Step routes orthogonally.
func RoutePath(style model.LineStyle, start, end Port) Path {
	switch style {
	case model.StyleCurve:
		return routeCurve(start, end)
	case model.StyleStep:
		return routeStep(start, end)
	default:
		return routeStraight(start, end)
	}
}

func routeStraight(start, end Port) Path {
	return Path{
		Points: []Point{start.Pos, end.Pos},
		Label:  midpoint(start.Pos, end.Pos),
	}
}

func routeCurve(start, end Port) Path {
	dx := math.Abs(end.Pos.X - start.Pos.X)
	dy := math.Abs(end.Pos.Y - start.Pos.Y)
	c1 := controlPoint(start, dx, dy)
	c2 := controlPoint(end, dx, dy)
	return Path{
		Points: []Point{start.Pos, end.Pos},
		Bezier: true,
		C1:     c1,
		C2:     c2,
		Label:  CubicAt(start.Pos, c1, c2, end.Pos, 0.5),
	}
}

// controlPoint offsets a port position outward along its normal axis by 50%
// of the span on that axis.
func controlPoint(p Port, dx, dy float64) Point {
	switch p.Side {
	case SideLeft:
		return Point{p.Pos.X - dx/2, p.Pos.Y}
	case SideRight:
		return Point{p.Pos.X + dx/2, p.Pos.Y}
	case SideTop:
		return Point{p.Pos.X, p.Pos.Y - dy/2}
	default:
		return Point{p.Pos.X, p.Pos.Y + dy/2}
	}
}

// CubicAt evaluates a cubic Bezier at parameter t.
func CubicAt(p0, c1, c2, p1 Point, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
	}
}

// routeStep does orthogonal routing. Two horizontal ports route through a
// vertical middle column; two vertical ports through a horizontal middle row;
// mixed sides take a single L-bend through the corner implied by the two
// port axes.
func routeStep(start, end Port) Path {
	s, e := start.Pos, end.Pos
	switch {
	case start.Side.Horizontal() && end.Side.Horizontal():
		midX := (s.X + e.X) / 2
		a := Point{midX, s.Y}
		b := Point{midX, e.Y}
		return Path{
			Points: []Point{s, a, b, e},
			Label:  midpoint(a, b),
		}
	case !start.Side.Horizontal() && !end.Side.Horizontal():
		midY := (s.Y + e.Y) / 2
		a := Point{s.X, midY}
		b := Point{e.X, midY}
		return Path{
			Points: []Point{s, a, b, e},
			Label:  midpoint(a, b),
		}
	case start.Side.Horizontal():
		// Leave the source horizontally, turn at the target's column.
		corner := Point{e.X, s.Y}
		return Path{
			Points: []Point{s, corner, e},
			Label:  corner,
		}
	default:
		// Leave the source vertically, turn at the target's row.
		corner := Point{s.X, e.Y}
		return Path{
			Points: []Point{s, corner, e},
			Label:  corner,
		}
	}
}

func midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Flatten returns the path as a polyline, sampling Bezier paths into segments.
// Used for hit-testing and cell rendering.
func (p Path) Flatten(segments int) []Point {
	if !p.Bezier {
		return p.Points
	}
	if segments < 2 {
		segments = 2
	}
	out := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		out = append(out, CubicAt(p.Points[0], p.C1, p.C2, p.Points[1], t))
	}
	return out
}

// DistanceTo returns the minimum distance from a point to the path. The
// tolerance band around this distance acts as the wide hit-target under the
// visible stroke.
func (p Path) DistanceTo(pt Point) float64 {
	pts := p.Flatten(24)
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		if d := segmentDistance(pts[i], pts[i+1], pt); d < best {
			best = d
		}
	}
	return best
}

func segmentDistance(a, b, p Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return Distance(a, p)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Distance(Point{a.X + t*abx, a.Y + t*aby}, p)
}
