package canvas

import (
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

// PointerDown starts a gesture. A press while another gesture is active is
// ignored outright; two drag states can never overlap. Priority order: pan,
// pending-connection commit, resize handle, entity, relationship, marquee.
func (c *Controller) PointerDown(ev PointerEvent) {
	if c.mode != ModeIdle {
		return
	}
	c.downAt = ev.Screen

	if ev.Button == ButtonMiddle || (ev.Button == ButtonLeft && c.tool == ToolPan) {
		c.mode = ModePanning
		c.dragStart = ev.Screen
		c.panStart = c.view.Offset
		return
	}
	if ev.Button != ButtonLeft {
		return
	}

	world := c.view.ScreenToWorld(ev.Screen)

	if id, ok := c.entityAt(world); ok {
		if c.connectFrom != "" {
			c.commitConnection(id)
			return
		}
		if c.tool == ToolConnect {
			c.connectFrom = id
			return
		}
		if c.resizeHandleHit(id, ev.Screen) {
			c.beginResize(id)
			return
		}
		c.pressEntity(id, ev.Mod)
		return
	}

	// The handle sticks out past the box corner, so a selected entity can
	// be grabbed just outside its bounds.
	if id := c.singleSelected(); id != "" && c.resizeHandleHit(id, ev.Screen) {
		c.beginResize(id)
		return
	}

	if relID, ok := c.relationshipAt(world); ok {
		c.selectedRel = relID
		clear(c.selected)
		return
	}

	// Empty canvas: marquee. Without the multi-select modifier the existing
	// selection is cleared first; with it the marquee adds to it.
	if !ev.Mod.Multi {
		clear(c.selected)
		c.selectedRel = ""
	}
	c.mode = ModeMarquee
	c.marqueeAnchor = world
	c.marqueeFar = world
}

// PointerMove records the latest pointer position. Applying it is deferred
// to Flush so high-frequency motion collapses to one update per frame.
// The return value tells the caller whether a flush needs scheduling.
func (c *Controller) PointerMove(ev PointerEvent) bool {
	c.pendingMove = &ev
	return true
}

// NeedsFlush reports whether a coalesced move is waiting.
func (c *Controller) NeedsFlush() bool { return c.pendingMove != nil }

// Flush applies the latest coalesced pointer move, if any.
func (c *Controller) Flush() {
	if c.pendingMove == nil {
		return
	}
	ev := *c.pendingMove
	c.pendingMove = nil

	switch c.mode {
	case ModePanning:
		c.view.Offset = geometry.Point{
			X: c.panStart.X + ev.Screen.X - c.dragStart.X,
			Y: c.panStart.Y + ev.Screen.Y - c.dragStart.Y,
		}
	case ModeDragging:
		dx := (ev.Screen.X - c.dragStart.X) / c.view.Zoom
		dy := (ev.Screen.Y - c.dragStart.Y) / c.view.Zoom
		for id, pre := range c.preDrag {
			c.overlay[id] = Patch{X: pre.X + dx, Y: pre.Y + dy, HasPos: true}
		}
	case ModeResizing:
		dx := (ev.Screen.X - c.dragStart.X) / c.view.Zoom
		dy := (ev.Screen.Y - c.dragStart.Y) / c.view.Zoom
		w := c.preResize.w + dx
		h := c.preResize.h + dy
		if w < geometry.MinEntityWidth {
			w = geometry.MinEntityWidth
		}
		if h < geometry.MinEntityHeight {
			h = geometry.MinEntityHeight
		}
		c.overlay[c.resizeID] = Patch{W: w, H: h, HasSize: true}
	case ModeMarquee:
		c.marqueeFar = c.view.ScreenToWorld(ev.Screen)
	default:
		world := c.view.ScreenToWorld(ev.Screen)
		if id, ok := c.entityAt(world); ok {
			c.hover = id
		} else {
			c.hover = ""
		}
	}
}

// PointerUp ends the active gesture. Drag and resize reconcile the overlay
// into the committed collection as one batch and clear it; marquee unions
// the covered entities into the selection. Every state returns to idle.
func (c *Controller) PointerUp(ev PointerEvent) {
	c.pendingMove = nil
	switch c.mode {
	case ModeDragging, ModeResizing:
		c.commitOverlay()
	case ModeMarquee:
		rect := normalizedRect(c.marqueeAnchor, c.marqueeFar)
		for _, e := range c.entities {
			if geometry.BoundingBox(e, c.ctx).Intersects(rect) {
				c.selected[e.ID] = struct{}{}
			}
		}
		if len(c.selected) > 0 {
			c.selectedRel = ""
		}
	}
	c.mode = ModeIdle
	c.resizeID = ""
	clear(c.preDrag)
}

// Cancel aborts the in-progress connection and, when idle, nothing else.
// Gestures end only through PointerUp.
func (c *Controller) Cancel() {
	c.connectFrom = ""
}

func (c *Controller) beginResize(id string) {
	b := c.boundingBoxOf(id)
	c.mode = ModeResizing
	c.resizeID = id
	c.preResize = size{w: b.W, h: b.H}
	c.dragStart = c.lastPointer()
}

// pressEntity applies the modifier-key selection semantics and enters the
// drag state, capturing the pre-drag position of every selected entity.
func (c *Controller) pressEntity(id string, mod Modifiers) {
	c.selectedRel = ""
	if mod.Multi {
		if _, ok := c.selected[id]; ok {
			delete(c.selected, id)
			return // toggled off; nothing left under the pointer to drag
		}
		c.selected[id] = struct{}{}
	} else if _, ok := c.selected[id]; !ok {
		// Unmodified click on an unselected entity replaces the selection.
		// Clicking an already-selected one keeps the set for multi-drag.
		clear(c.selected)
		c.selected[id] = struct{}{}
	}

	c.mode = ModeDragging
	c.dragStart = c.lastPointer()
	clear(c.preDrag)
	for _, e := range c.EffectiveEntities() {
		if _, ok := c.selected[e.ID]; ok {
			c.preDrag[e.ID] = geometry.Point{X: e.X, Y: e.Y}
		}
	}
}

func (c *Controller) commitConnection(targetID string) {
	source := c.connectFrom
	c.connectFrom = ""
	if source == targetID {
		return
	}
	rels := make([]model.Relationship, len(c.rels), len(c.rels)+1)
	copy(rels, c.rels)
	rels = append(rels, model.NewRelationship(source, targetID))
	c.rels = rels
	c.sink.ApplyBatch(c.entities, rels)
}

// commitOverlay merges the transient patches into the committed collection
// by id, submits the batch, and clears the overlay.
func (c *Controller) commitOverlay() {
	if len(c.overlay) == 0 {
		return
	}
	merged := make([]model.EntityNode, len(c.entities))
	copy(merged, c.entities)
	for i := range merged {
		if p, ok := c.overlay[merged[i].ID]; ok {
			merged[i] = applyPatch(merged[i], p)
		}
	}
	clear(c.overlay)
	c.entities = merged
	c.sink.ApplyBatch(merged, c.rels)
}

// lastPointer returns the screen position of the most recent pointer-down.
// PointerDown callers set dragStart through here so gesture starts agree.
func (c *Controller) lastPointer() geometry.Point { return c.downAt }
