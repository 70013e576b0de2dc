// Package canvas is the selection and interaction state machine at the heart
// of the editor. It owns the interaction mode, the active gesture, the
// selection set and the in-progress connection, and turns pointer and
// keyboard input into new entity/relationship collections that are handed to
// the host through the update sink. It never keeps a second copy of committed
// positions; during a gesture it layers a transient overlay on top of the
// host's collections and reconciles it exactly once, at gesture end.
package canvas

import (
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/viewport"
)

// Mode is the active interaction state. Exactly one is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeDragging
	ModeResizing
	ModeMarquee
)

// Tool is the active toolbar tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolConnect
)

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Multi bool // shift/ctrl/meta: multi-select semantics
}

// PointerEvent is a pointer interaction at a screen position.
type PointerEvent struct {
	Screen geometry.Point
	Button Button
	Mod    Modifiers
}

// Sink receives committed model updates. Entities and relationships always
// arrive together as full replacement collections so deletes can never leave
// a dangling reference visible between two commits.
type Sink interface {
	ApplyBatch(entities []model.EntityNode, rels []model.Relationship)
}

// Patch is a partial positional update for one entity, merged over the
// committed collection at read time and committed as a batch at gesture end.
type Patch struct {
	X, Y    float64
	W, H    float64
	HasPos  bool
	HasSize bool
}

// Hit-test metrics, in screen units.
const (
	handleSize   = 14.0 // resize handle square at the bottom-right corner
	relHitWidth  = 8.0  // half-width of the invisible hit band around a path
	pathSegments = 24
)

type size struct{ w, h float64 }

// Controller is the interaction state machine.
type Controller struct {
	view *viewport.Viewport
	ctx  geometry.Context
	sink Sink

	entities []model.EntityNode
	rels     []model.Relationship

	tool Tool
	mode Mode

	selected    map[string]struct{}
	selectedRel string

	overlay map[string]Patch

	downAt    geometry.Point // most recent pointer-down, screen units
	dragStart geometry.Point // pointer position at gesture start, screen units
	panStart  geometry.Point // viewport offset at pan start
	preDrag   map[string]geometry.Point
	resizeID  string
	preResize size

	marqueeAnchor geometry.Point // world units
	marqueeFar    geometry.Point

	connectFrom string // pending connection source entity, "" when none

	pendingMove *PointerEvent // latest unapplied move, coalesced per frame
	hover       string        // entity under the pointer when idle

	clipboard []model.EntityNode
}

// New creates a controller over the given viewport, bound to the sink.
func New(view *viewport.Viewport, ctx geometry.Context, sink Sink) *Controller {
	return &Controller{
		view:     view,
		ctx:      ctx,
		sink:     sink,
		selected: make(map[string]struct{}),
		overlay:  make(map[string]Patch),
		preDrag:  make(map[string]geometry.Point),
	}
}

// SetModel replaces the committed collections. Selection entries that no
// longer resolve are dropped; the transient overlay is left alone so a
// mid-gesture echo from the host cannot truncate a drag.
func (c *Controller) SetModel(entities []model.EntityNode, rels []model.Relationship) {
	c.entities = entities
	c.rels = rels
	present := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		present[e.ID] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := present[id]; !ok {
			delete(c.selected, id)
		}
	}
	if c.selectedRel != "" {
		found := false
		for _, r := range rels {
			if r.ID == c.selectedRel {
				found = true
				break
			}
		}
		if !found {
			c.selectedRel = ""
		}
	}
	if c.connectFrom != "" {
		if _, ok := present[c.connectFrom]; !ok {
			c.connectFrom = ""
		}
	}
}

// SetContext updates the geometry context (representation kind, text filter).
func (c *Controller) SetContext(ctx geometry.Context) { c.ctx = ctx }

// Context returns the current geometry context.
func (c *Controller) Context() geometry.Context { return c.ctx }

// Mode returns the active interaction mode.
func (c *Controller) Mode() Mode { return c.mode }

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool switches tools; switching cancels a pending connection.
func (c *Controller) SetTool(t Tool) {
	c.tool = t
	if t != ToolConnect {
		c.connectFrom = ""
	}
}

// Entities returns the committed entity collection.
func (c *Controller) Entities() []model.EntityNode { return c.entities }

// Relationships returns the committed relationship collection.
func (c *Controller) Relationships() []model.Relationship { return c.rels }

// Selected returns the selected entity id set. Callers must not mutate it.
func (c *Controller) Selected() map[string]struct{} { return c.selected }

// SelectedRelationship returns the selected relationship id, or "".
func (c *Controller) SelectedRelationship() string { return c.selectedRel }

// ClearSelection empties the entity selection set and drops any selected
// relationship.
func (c *Controller) ClearSelection() {
	c.selected = make(map[string]struct{})
	c.selectedRel = ""
}

// ConnectSource returns the pending connection source entity id, or "".
func (c *Controller) ConnectSource() string { return c.connectFrom }

// Hover returns the entity id under the pointer while idle, or "".
func (c *Controller) Hover() string { return c.hover }

// Overlay returns the transient per-gesture patches. Callers must not
// mutate it.
func (c *Controller) Overlay() map[string]Patch { return c.overlay }

// EffectiveEntities merges the overlay over the committed collection. This
// is what the render layer and hit-testing read during a gesture.
func (c *Controller) EffectiveEntities() []model.EntityNode {
	if len(c.overlay) == 0 {
		return c.entities
	}
	out := make([]model.EntityNode, len(c.entities))
	copy(out, c.entities)
	for i := range out {
		if p, ok := c.overlay[out[i].ID]; ok {
			out[i] = applyPatch(out[i], p)
		}
	}
	return out
}

func applyPatch(e model.EntityNode, p Patch) model.EntityNode {
	if p.HasPos {
		e.X, e.Y = p.X, p.Y
	}
	if p.HasSize {
		e.Width, e.Height = p.W, p.H
	}
	return e
}

// MarqueeRect returns the live marquee rectangle in world units and whether
// a marquee is active.
func (c *Controller) MarqueeRect() (geometry.Rect, bool) {
	if c.mode != ModeMarquee {
		return geometry.Rect{}, false
	}
	return normalizedRect(c.marqueeAnchor, c.marqueeFar), true
}

func normalizedRect(a, b geometry.Point) geometry.Rect {
	r := geometry.Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}
