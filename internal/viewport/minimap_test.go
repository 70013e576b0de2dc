package viewport

import (
	"math"
	"testing"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

var mapCtx = geometry.Context{Kind: model.KindLogical}

func TestMinimapBounds(t *testing.T) {
	m := Minimap{Width: 26, Height: 9}

	t.Run("empty diagram gets a centered default", func(t *testing.T) {
		b := m.Bounds(nil, mapCtx)
		if b.W != MinWorldSpan || b.H != MinWorldSpan {
			t.Errorf("bounds %+v, want %vx%v", b, MinWorldSpan, MinWorldSpan)
		}
		if b.Center() != (geometry.Point{}) {
			t.Errorf("default bounds not centered on origin: %+v", b.Center())
		}
	})

	t.Run("padded around content", func(t *testing.T) {
		ents := []model.EntityNode{
			{ID: "a", X: 100, Y: 100},
			{ID: "b", X: 500, Y: 150},
		}
		b := m.Bounds(ents, mapCtx)
		if b.X != 100-MinimapPadding {
			t.Errorf("left = %v, want %v", b.X, 100-MinimapPadding)
		}
		// Right edge: 500 + DefaultWidth + padding.
		if b.Right() != 500+geometry.DefaultWidth+MinimapPadding {
			t.Errorf("right = %v", b.Right())
		}
	})

	t.Run("span floors apply to a point cluster", func(t *testing.T) {
		ents := []model.EntityNode{{ID: "a", X: 10, Y: 10, Width: 20, Height: 20}}
		b := m.Bounds(ents, mapCtx)
		if b.W < MinWorldSpan || b.H < MinWorldSpan {
			t.Errorf("bounds %+v below the span floor", b)
		}
	})
}

func TestMinimapScale(t *testing.T) {
	m := Minimap{Width: 26, Height: 9}
	bounds := geometry.Rect{X: 0, Y: 0, W: 2600, H: 450}
	// sx = 0.01, sy = 0.02: the wider dimension must fit.
	if s := m.Scale(bounds); math.Abs(s-0.01) > 1e-12 {
		t.Errorf("scale = %v, want 0.01", s)
	}
}

func TestWorldMapRoundTrip(t *testing.T) {
	m := Minimap{Width: 26, Height: 9}
	bounds := geometry.Rect{X: -100, Y: 50, W: 1000, H: 800}
	p := geometry.Point{X: 300, Y: 400}
	got := m.MapToWorld(bounds, m.WorldToMap(bounds, p))
	if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
		t.Errorf("round trip drifted: %+v -> %+v", p, got)
	}
}

func TestJumpToCenters(t *testing.T) {
	m := Minimap{Width: 26, Height: 9}
	bounds := geometry.Rect{X: 0, Y: 0, W: 1000, H: 1000}
	v := &Viewport{Zoom: 1}

	click := geometry.Point{X: 13, Y: 4.5}
	m.JumpTo(v, bounds, click, 800, 600)

	want := m.MapToWorld(bounds, click)
	got := v.ScreenToWorld(geometry.Point{X: 400, Y: 300})
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("screen center maps to %+v, want %+v", got, want)
	}
}

func TestDragBy(t *testing.T) {
	m := Minimap{Width: 26, Height: 9}
	bounds := geometry.Rect{X: 0, Y: 0, W: 1000, H: 1000}
	v := &Viewport{Zoom: 2}
	s := m.Scale(bounds)

	m.DragBy(v, bounds, 3, -2)
	want := geometry.Point{X: -3 / s * 2, Y: 2 / s * 2}
	if math.Abs(v.Offset.X-want.X) > 1e-9 || math.Abs(v.Offset.Y-want.Y) > 1e-9 {
		t.Errorf("offset = %+v, want %+v", v.Offset, want)
	}
}

func TestViewfinderTracksViewport(t *testing.T) {
	m := Minimap{Width: 26, Height: 9}
	bounds := geometry.Rect{X: 0, Y: 0, W: 1000, H: 1000}
	v := &Viewport{Zoom: 1}

	before := m.Viewfinder(v, bounds, 800, 600)
	v.PanBy(-100, 0) // view moves right in world space
	after := m.Viewfinder(v, bounds, 800, 600)

	if after.X <= before.X {
		t.Errorf("viewfinder did not move right: %v -> %v", before.X, after.X)
	}
	if math.Abs(after.W-before.W) > 1e-9 {
		t.Errorf("viewfinder width changed on pan: %v -> %v", before.W, after.W)
	}
}
