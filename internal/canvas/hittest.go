package canvas

import (
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

// entityAt returns the topmost entity under a world point. Later entries in
// the collection draw on top, so iteration runs back to front.
func (c *Controller) entityAt(world geometry.Point) (string, bool) {
	ents := c.EffectiveEntities()
	for i := len(ents) - 1; i >= 0; i-- {
		if geometry.BoundingBox(ents[i], c.ctx).Contains(world) {
			return ents[i].ID, true
		}
	}
	return "", false
}

// EntityAt is the exported hit query used by the host for double-click edit
// requests and context actions. The point is in screen units.
func (c *Controller) EntityAt(screen geometry.Point) (model.EntityNode, bool) {
	id, ok := c.entityAt(c.view.ScreenToWorld(screen))
	if !ok {
		return model.EntityNode{}, false
	}
	return model.FindEntity(c.EffectiveEntities(), id)
}

// relationshipAt finds a relationship whose routed path passes within the
// hit band of the world point. The band is wider than the visible stroke,
// scaled so picking tolerance stays constant on screen.
func (c *Controller) relationshipAt(world geometry.Point) (string, bool) {
	ents := c.EffectiveEntities()
	tolerance := relHitWidth / c.view.Zoom
	for _, r := range c.rels {
		src, ok := model.FindEntity(ents, r.SourceID)
		if !ok {
			continue
		}
		dst, ok := model.FindEntity(ents, r.TargetID)
		if !ok {
			continue
		}
		start, end := geometry.BestConnection(
			geometry.BoundingBox(src, c.ctx),
			geometry.BoundingBox(dst, c.ctx),
		)
		path := geometry.RoutePath(r.Style, start, end)
		if path.DistanceTo(world) <= tolerance {
			return r.ID, true
		}
	}
	return "", false
}

// resizeHandleHit reports whether a screen point falls on the resize handle
// of the given entity. The handle only exists for the single selected or
// hovered entity and never while the pan tool is active.
func (c *Controller) resizeHandleHit(id string, screen geometry.Point) bool {
	if c.tool == ToolPan {
		return false
	}
	if _, sel := c.selected[id]; !sel && c.hover != id {
		return false
	}
	if len(c.selected) > 1 {
		return false
	}
	b := c.boundingBoxOf(id)
	corner := c.view.WorldToScreen(geometry.Point{X: b.Right(), Y: b.Bottom()})
	half := handleSize / 2
	return screen.X >= corner.X-half && screen.X <= corner.X+half &&
		screen.Y >= corner.Y-half && screen.Y <= corner.Y+half
}

func (c *Controller) boundingBoxOf(id string) geometry.Rect {
	e, ok := model.FindEntity(c.EffectiveEntities(), id)
	if !ok {
		return geometry.Rect{}
	}
	return geometry.BoundingBox(e, c.ctx)
}

// singleSelected returns the id when exactly one entity is selected.
func (c *Controller) singleSelected() string {
	if len(c.selected) != 1 {
		return ""
	}
	for id := range c.selected {
		return id
	}
	return ""
}
