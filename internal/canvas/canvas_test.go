package canvas

import (
	"strings"
	"testing"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/viewport"
)

type batch struct {
	entities []model.EntityNode
	rels     []model.Relationship
}

type recordSink struct {
	batches []batch
}

func (s *recordSink) ApplyBatch(entities []model.EntityNode, rels []model.Relationship) {
	s.batches = append(s.batches, batch{entities: entities, rels: rels})
}

func (s *recordSink) last(t *testing.T) batch {
	t.Helper()
	if len(s.batches) == 0 {
		t.Fatal("no batch committed")
	}
	return s.batches[len(s.batches)-1]
}

func newTestController(entities []model.EntityNode, rels []model.Relationship) (*Controller, *recordSink, *viewport.Viewport) {
	view := viewport.New()
	sink := &recordSink{}
	c := New(view, geometry.Context{Kind: model.KindLogical}, sink)
	c.SetModel(entities, rels)
	return c, sink, view
}

func press(c *Controller, x, y float64) {
	c.PointerDown(PointerEvent{Screen: geometry.Point{X: x, Y: y}, Button: ButtonLeft})
}

func pressMulti(c *Controller, x, y float64) {
	c.PointerDown(PointerEvent{Screen: geometry.Point{X: x, Y: y}, Button: ButtonLeft, Mod: Modifiers{Multi: true}})
}

func moveFlush(c *Controller, x, y float64) {
	c.PointerMove(PointerEvent{Screen: geometry.Point{X: x, Y: y}, Button: ButtonLeft})
	c.Flush()
}

func release(c *Controller, x, y float64) {
	c.PointerUp(PointerEvent{Screen: geometry.Point{X: x, Y: y}, Button: ButtonLeft})
}

func clickEntity(c *Controller, x, y float64) {
	press(c, x, y)
	release(c, x, y)
}

// twoEntities is the standard fixture: 200x40 boxes at (100,100) and (500,150).
func twoEntities() []model.EntityNode {
	return []model.EntityNode{
		{ID: "e1", Name: "Customer", X: 100, Y: 100},
		{ID: "e2", Name: "Order", X: 500, Y: 150},
	}
}

func TestDragCommitsOnce(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)

	press(c, 150, 120)
	if c.Mode() != ModeDragging {
		t.Fatalf("mode = %v, want dragging", c.Mode())
	}
	moveFlush(c, 170, 110)
	moveFlush(c, 200, 100)
	if len(sink.batches) != 0 {
		t.Fatalf("batches during drag: %d, want 0", len(sink.batches))
	}

	release(c, 200, 100)
	if len(sink.batches) != 1 {
		t.Fatalf("batches after release: %d, want 1", len(sink.batches))
	}
	e, _ := model.FindEntity(sink.last(t).entities, "e1")
	if e.X != 150 || e.Y != 80 {
		t.Errorf("e1 at (%v,%v), want (150,80)", e.X, e.Y)
	}
	if len(c.Overlay()) != 0 {
		t.Error("overlay not cleared after commit")
	}
	if c.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", c.Mode())
	}
}

func TestDragScalesWithZoom(t *testing.T) {
	c, sink, view := newTestController(twoEntities(), nil)
	view.Zoom = 2

	// World (150,120) is screen (300,240) at zoom 2.
	press(c, 300, 240)
	moveFlush(c, 400, 240)
	release(c, 400, 240)

	e, _ := model.FindEntity(sink.last(t).entities, "e1")
	if e.X != 150 {
		t.Errorf("e1.X = %v, want 150 (screen delta halved)", e.X)
	}
}

func TestDragMovesWholeSelection(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 150, 120)
	pressMulti(c, 550, 170)
	release(c, 550, 170)

	// Unmodified press on an already-selected entity keeps the set.
	press(c, 150, 120)
	moveFlush(c, 160, 130)
	release(c, 160, 130)

	got := sink.last(t).entities
	e1, _ := model.FindEntity(got, "e1")
	e2, _ := model.FindEntity(got, "e2")
	if e1.X != 110 || e1.Y != 110 {
		t.Errorf("e1 at (%v,%v), want (110,110)", e1.X, e1.Y)
	}
	if e2.X != 510 || e2.Y != 160 {
		t.Errorf("e2 at (%v,%v), want (510,160)", e2.X, e2.Y)
	}
}

func TestResizeFloors(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 150, 120)
	// e1's box is (100,100,200,40); the handle sits at (300,140).
	press(c, 300, 140)
	if c.Mode() != ModeResizing {
		t.Fatalf("mode = %v, want resizing", c.Mode())
	}
	moveFlush(c, 100, 100)
	release(c, 100, 100)

	e, _ := model.FindEntity(sink.last(t).entities, "e1")
	if e.Width != geometry.MinEntityWidth || e.Height != geometry.MinEntityHeight {
		t.Errorf("size = %vx%v, want floors %vx%v",
			e.Width, e.Height, geometry.MinEntityWidth, geometry.MinEntityHeight)
	}
}

func TestResizeGrows(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 150, 120)
	press(c, 300, 140)
	moveFlush(c, 400, 240)
	release(c, 400, 240)

	e, _ := model.FindEntity(sink.last(t).entities, "e1")
	if e.Width != 300 || e.Height != 140 {
		t.Errorf("size = %vx%v, want 300x140", e.Width, e.Height)
	}
}

func TestMarqueeSelects(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)

	press(c, 50, 50)
	if c.Mode() != ModeMarquee {
		t.Fatalf("mode = %v, want marquee", c.Mode())
	}
	moveFlush(c, 350, 300)
	if _, ok := c.MarqueeRect(); !ok {
		t.Fatal("no live marquee rect")
	}
	release(c, 350, 300)

	if _, ok := c.Selected()["e1"]; !ok {
		t.Error("e1 not selected by marquee")
	}
	if _, ok := c.Selected()["e2"]; ok {
		t.Error("e2 selected but outside the marquee")
	}
}

func TestMarqueeAdditiveWithModifier(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 550, 170) // select e2
	pressMulti(c, 50, 50)
	moveFlush(c, 350, 300)
	release(c, 350, 300)

	if len(c.Selected()) != 2 {
		t.Errorf("selection size = %d, want union of 2", len(c.Selected()))
	}
}

func TestMarqueeWithoutModifierClearsFirst(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 550, 170)
	press(c, 50, 50)
	moveFlush(c, 60, 60) // covers nothing
	release(c, 60, 60)

	if len(c.Selected()) != 0 {
		t.Errorf("selection size = %d, want 0", len(c.Selected()))
	}
}

func TestMarqueeTouchingBoxCounts(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)

	// The marquee's right edge lands exactly on e1's left edge.
	press(c, 50, 50)
	moveFlush(c, 100, 120)
	release(c, 100, 120)

	if _, ok := c.Selected()["e1"]; !ok {
		t.Error("touching marquee must select")
	}
}

func TestDeleteIsAtomic(t *testing.T) {
	rel := model.Relationship{ID: "r1", SourceID: "e1", TargetID: "e2"}
	c, sink, _ := newTestController(twoEntities(), []model.Relationship{rel})

	clickEntity(c, 150, 120)
	c.DeleteSelection()

	if len(sink.batches) != 1 {
		t.Fatalf("batches = %d, want a single atomic commit", len(sink.batches))
	}
	got := sink.last(t)
	if len(got.entities) != 1 || got.entities[0].ID != "e2" {
		t.Errorf("entities after delete: %+v", got.entities)
	}
	if len(got.rels) != 0 {
		t.Errorf("dangling relationship survived: %+v", got.rels)
	}
}

func TestDeleteSelectedRelationship(t *testing.T) {
	rel := model.Relationship{ID: "r1", SourceID: "e1", TargetID: "e2", Style: model.StyleStraight}
	c, sink, _ := newTestController(twoEntities(), []model.Relationship{rel})

	// Click the straight path between the boxes: right port (300,120) to
	// left port (500,170), midpoint (400,145).
	press(c, 400, 145)
	if c.SelectedRelationship() != "r1" {
		t.Fatalf("selected rel = %q, want r1", c.SelectedRelationship())
	}
	release(c, 400, 145)

	c.DeleteSelection()
	got := sink.last(t)
	if len(got.rels) != 0 {
		t.Error("relationship not removed")
	}
	if len(got.entities) != 2 {
		t.Error("entities must survive a relationship delete")
	}
}

func TestClearSelectionDropsRelationship(t *testing.T) {
	rel := model.Relationship{ID: "r1", SourceID: "e1", TargetID: "e2", Style: model.StyleStraight}
	c, _, _ := newTestController(twoEntities(), []model.Relationship{rel})

	press(c, 400, 145)
	release(c, 400, 145)
	if c.SelectedRelationship() != "r1" {
		t.Fatalf("selected rel = %q, want r1", c.SelectedRelationship())
	}
	c.ClearSelection()
	if c.SelectedRelationship() != "" {
		t.Error("relationship selection must clear")
	}

	clickEntity(c, 150, 120)
	if len(c.Selected()) != 1 {
		t.Fatal("entity not selected")
	}
	c.ClearSelection()
	if len(c.Selected()) != 0 {
		t.Error("entity selection must clear")
	}
}

func TestCopyPaste(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 150, 120)
	snap := c.Copy()
	if len(snap) != 1 {
		t.Fatalf("snapshot size = %d, want 1", len(snap))
	}
	c.Paste()

	got := sink.last(t).entities
	if len(got) != 3 {
		t.Fatalf("entity count = %d, want 3", len(got))
	}
	clone := got[2]
	if clone.ID == "e1" {
		t.Error("clone kept the source id")
	}
	if clone.X != 140 || clone.Y != 140 {
		t.Errorf("clone at (%v,%v), want source + %v", clone.X, clone.Y, model.PasteOffset)
	}
	if !strings.HasSuffix(clone.Name, model.PasteSuffix) {
		t.Errorf("clone name %q missing suffix", clone.Name)
	}
	if _, ok := c.Selected()[clone.ID]; !ok {
		t.Error("paste must select the clones")
	}
	if _, ok := c.Selected()["e1"]; ok {
		t.Error("paste must deselect the originals")
	}
}

func TestOverlappingGestureIgnored(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)

	press(c, 150, 120)
	// A second press mid-gesture must not start anything.
	press(c, 550, 170)
	if c.Mode() != ModeDragging {
		t.Fatalf("mode = %v, want dragging untouched", c.Mode())
	}
	release(c, 150, 120)
	if len(c.Selected()) != 1 {
		t.Errorf("selection size = %d, want 1", len(c.Selected()))
	}
}

func TestMultiToggleOffDoesNotDrag(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 150, 120)
	pressMulti(c, 150, 120) // toggles e1 off
	if c.Mode() == ModeDragging {
		t.Error("toggle-off press must not start a drag")
	}
	moveFlush(c, 300, 300)
	release(c, 300, 300)
	if len(sink.batches) != 0 {
		t.Error("nothing should have been committed")
	}
}

func TestConnectTool(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)
	c.SetTool(ToolConnect)

	clickEntity(c, 150, 120)
	if c.ConnectSource() != "e1" {
		t.Fatalf("connect source = %q, want e1", c.ConnectSource())
	}
	clickEntity(c, 550, 170)

	got := sink.last(t)
	if len(got.rels) != 1 {
		t.Fatalf("relationship count = %d, want 1", len(got.rels))
	}
	r := got.rels[0]
	if r.SourceID != "e1" || r.TargetID != "e2" {
		t.Errorf("relationship %s -> %s", r.SourceID, r.TargetID)
	}
	if r.Cardinality != model.OneToMany || r.TargetMarker != model.MarkerCrowFoot {
		t.Errorf("defaults not applied: %+v", r)
	}
	if c.ConnectSource() != "" {
		t.Error("pending connection must clear after commit")
	}
}

func TestConnectToSelfIsNoop(t *testing.T) {
	c, sink, _ := newTestController(twoEntities(), nil)
	c.SetTool(ToolConnect)

	clickEntity(c, 150, 120)
	clickEntity(c, 150, 120)

	if len(sink.batches) != 0 {
		t.Error("self-connection must not commit")
	}
	if c.ConnectSource() != "" {
		t.Error("pending connection must clear")
	}
}

func TestCancelClearsPendingConnection(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)
	c.SetTool(ToolConnect)
	clickEntity(c, 150, 120)

	c.Cancel()
	if c.ConnectSource() != "" {
		t.Error("cancel must drop the pending source")
	}
}

func TestPanning(t *testing.T) {
	c, _, view := newTestController(twoEntities(), nil)
	c.SetTool(ToolPan)

	press(c, 400, 300)
	moveFlush(c, 450, 280)
	release(c, 450, 280)

	if view.Offset != (geometry.Point{X: 50, Y: -20}) {
		t.Errorf("offset = %+v, want (50,-20)", view.Offset)
	}
}

func TestMiddleButtonPansAnyTool(t *testing.T) {
	c, _, view := newTestController(twoEntities(), nil)

	c.PointerDown(PointerEvent{Screen: geometry.Point{X: 150, Y: 120}, Button: ButtonMiddle})
	if c.Mode() != ModePanning {
		t.Fatalf("mode = %v, want panning", c.Mode())
	}
	moveFlush(c, 180, 120)
	release(c, 180, 120)
	if view.Offset.X != 30 {
		t.Errorf("offset.X = %v, want 30", view.Offset.X)
	}
}

func TestSetModelPrunesStaleSelection(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)

	clickEntity(c, 150, 120)
	c.SetModel([]model.EntityNode{{ID: "e2", Name: "Order", X: 500, Y: 150}}, nil)

	if len(c.Selected()) != 0 {
		t.Errorf("stale selection survived: %v", c.Selected())
	}
}

func TestSelectAll(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)
	c.SelectAll()
	if len(c.Selected()) != 2 {
		t.Errorf("selection size = %d, want 2", len(c.Selected()))
	}
}

func TestEffectiveEntitiesDuringDrag(t *testing.T) {
	c, _, _ := newTestController(twoEntities(), nil)

	press(c, 150, 120)
	moveFlush(c, 250, 120)

	eff, _ := model.FindEntity(c.EffectiveEntities(), "e1")
	if eff.X != 200 {
		t.Errorf("effective X = %v, want 200 mid-drag", eff.X)
	}
	committed, _ := model.FindEntity(c.Entities(), "e1")
	if committed.X != 100 {
		t.Errorf("committed X = %v, must stay 100 until release", committed.X)
	}
}
