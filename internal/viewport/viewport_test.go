package viewport

import (
	"math"
	"testing"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
)

func TestRoundTrip(t *testing.T) {
	v := &Viewport{Offset: geometry.Point{X: 37, Y: -12}, Zoom: 1.7}
	world := geometry.Point{X: 420, Y: 230}
	got := v.ScreenToWorld(v.WorldToScreen(world))
	if math.Abs(got.X-world.X) > 1e-9 || math.Abs(got.Y-world.Y) > 1e-9 {
		t.Errorf("round trip drifted: %+v -> %+v", world, got)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	v := &Viewport{Offset: geometry.Point{X: 50, Y: 80}, Zoom: 1}
	anchor := geometry.Point{X: 400, Y: 300}
	before := v.ScreenToWorld(anchor)

	v.ZoomAt(anchor, 1.5)
	after := v.ScreenToWorld(anchor)

	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Errorf("anchor world point moved: %+v -> %+v", before, after)
	}
	if v.Zoom != 1.5 {
		t.Errorf("zoom = %v, want 1.5", v.Zoom)
	}
}

func TestZoomAtRepeatedKeepsAnchor(t *testing.T) {
	v := &Viewport{Zoom: 1}
	anchor := geometry.Point{X: 123, Y: 456}
	before := v.ScreenToWorld(anchor)
	for i := 0; i < 10; i++ {
		v.ZoomAt(anchor, 1.1)
	}
	after := v.ScreenToWorld(anchor)
	if math.Abs(before.X-after.X) > 1e-6 || math.Abs(before.Y-after.Y) > 1e-6 {
		t.Errorf("anchor drifted after repeated zoom: %+v -> %+v", before, after)
	}
}

func TestZoomClamps(t *testing.T) {
	t.Run("wheel range", func(t *testing.T) {
		v := &Viewport{Zoom: 1}
		v.ZoomAt(geometry.Point{}, 100)
		if v.Zoom != MaxZoom {
			t.Errorf("zoom = %v, want clamp at %v", v.Zoom, MaxZoom)
		}
		v.ZoomAt(geometry.Point{}, 1e-6)
		if v.Zoom != MinZoom {
			t.Errorf("zoom = %v, want clamp at %v", v.Zoom, MinZoom)
		}
	})

	t.Run("toolbar range", func(t *testing.T) {
		v := &Viewport{Zoom: 1}
		v.ZoomStep(geometry.Point{}, 100)
		if v.Zoom != MaxToolbarZoom {
			t.Errorf("zoom = %v, want clamp at %v", v.Zoom, MaxToolbarZoom)
		}
		v.ZoomStep(geometry.Point{}, 1e-6)
		if v.Zoom != MinToolbarZoom {
			t.Errorf("zoom = %v, want clamp at %v", v.Zoom, MinToolbarZoom)
		}
	})

	t.Run("clamped zoom is a no-op at the limit", func(t *testing.T) {
		v := &Viewport{Offset: geometry.Point{X: 10, Y: 10}, Zoom: MaxZoom}
		v.ZoomAt(geometry.Point{X: 100, Y: 100}, 2)
		if v.Offset != (geometry.Point{X: 10, Y: 10}) {
			t.Errorf("offset moved on a fully clamped zoom: %+v", v.Offset)
		}
	})
}

func TestPanBy(t *testing.T) {
	v := New()
	v.PanBy(15, -7)
	if v.Offset != (geometry.Point{X: 15, Y: -7}) {
		t.Errorf("offset = %+v", v.Offset)
	}
}

func TestCenterOn(t *testing.T) {
	v := &Viewport{Zoom: 2}
	v.CenterOn(geometry.Point{X: 100, Y: 50}, 800, 600)
	got := v.ScreenToWorld(geometry.Point{X: 400, Y: 300})
	if math.Abs(got.X-100) > 1e-9 || math.Abs(got.Y-50) > 1e-9 {
		t.Errorf("screen center maps to %+v, want (100,50)", got)
	}
}
