package render

import (
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/viewport"
)

// Scene is everything the render layer reads. Entities arrive with the
// gesture overlay already applied.
type Scene struct {
	Entities      []model.EntityNode
	Relationships []model.Relationship
	View          *viewport.Viewport
	Ctx           geometry.Context
	Selected      map[string]struct{}
	SelectedRel   string
	Hovered       string
	ConnectSource string
	ConnectTo     geometry.Point // screen position of the pointer during connect
	Connecting    bool
	Marquee       *geometry.Rect // world units
	Loading       map[string]bool
	ShowMinimap   bool
	ScreenW       float64 // screen pixels, = cols*CellW
	ScreenH       float64
}

// Renderer draws scenes. It carries only the style palette and minimap size.
type Renderer struct {
	styles  Styles
	minimap viewport.Minimap
}

// New creates a renderer with the default palette.
func New() *Renderer {
	return &Renderer{
		styles:  DefaultStyles(),
		minimap: viewport.Minimap{Width: minimapCols, Height: minimapRows},
	}
}

// MinimapProjection returns the minimap used for drawing so the input layer
// shares its scale and bounds when hit-testing clicks on the panel.
func (r *Renderer) MinimapProjection() viewport.Minimap { return r.minimap }

// Render draws the scene into a cols×rows cell grid and returns the styled
// string. Relationships draw under entities; affordances draw on top.
func (r *Renderer) Render(s Scene, cols, rows int) string {
	g := r.RenderGrid(s, cols, rows)
	return g.String(r.styles)
}

// RenderGrid is Render without the final styling pass; tests read the grid.
func (r *Renderer) RenderGrid(s Scene, cols, rows int) *Grid {
	g := NewGrid(cols, rows)
	boxes := make(map[string]geometry.Rect, len(s.Entities))
	for _, e := range s.Entities {
		boxes[e.ID] = geometry.BoundingBox(e, s.Ctx)
	}

	for _, rel := range s.Relationships {
		src, ok := boxes[rel.SourceID]
		if !ok {
			continue
		}
		dst, ok := boxes[rel.TargetID]
		if !ok {
			continue
		}
		r.drawRelationship(g, s, rel, src, dst)
	}

	for _, e := range s.Entities {
		r.entityStrategy(s.Ctx.Kind).draw(g, r, s, e, boxes[e.ID])
	}

	if s.Connecting && s.ConnectSource != "" {
		if src, ok := boxes[s.ConnectSource]; ok {
			r.drawConnectPreview(g, s, src)
		}
	}
	if s.Marquee != nil {
		r.drawMarquee(g, s, *s.Marquee)
	}
	r.drawResizeHandle(g, s, boxes)
	if s.ShowMinimap {
		r.drawMinimap(g, s)
	}
	return g
}

// drawResizeHandle marks the bottom-right corner of the single selected (or
// hovered) entity.
func (r *Renderer) drawResizeHandle(g *Grid, s Scene, boxes map[string]geometry.Rect) {
	id := ""
	if len(s.Selected) == 1 {
		for k := range s.Selected {
			id = k
		}
	} else if len(s.Selected) == 0 && s.Hovered != "" {
		id = s.Hovered
	}
	if id == "" {
		return
	}
	b, ok := boxes[id]
	if !ok {
		return
	}
	corner := s.View.WorldToScreen(geometry.Point{X: b.Right(), Y: b.Bottom()})
	x, y := toCell(corner)
	g.Set(x, y, '◢', styleHandle)
}

func (r *Renderer) drawMarquee(g *Grid, s Scene, world geometry.Rect) {
	tl := s.View.WorldToScreen(geometry.Point{X: world.X, Y: world.Y})
	br := s.View.WorldToScreen(geometry.Point{X: world.Right(), Y: world.Bottom()})
	x0, y0, x1, y1 := cellRect(geometry.Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y})
	for x := x0; x <= x1; x++ {
		g.Set(x, y0, '┄', styleMarquee)
		g.Set(x, y1, '┄', styleMarquee)
	}
	for y := y0; y <= y1; y++ {
		g.Set(x0, y, '┆', styleMarquee)
		g.Set(x1, y, '┆', styleMarquee)
	}
}

func (r *Renderer) drawConnectPreview(g *Grid, s Scene, src geometry.Rect) {
	world := s.View.ScreenToWorld(s.ConnectTo)
	ports := geometry.Ports(src)
	best := ports[0]
	bestD := geometry.Distance(best.Pos, world)
	for _, p := range ports[1:] {
		if d := geometry.Distance(p.Pos, world); d < bestD {
			best, bestD = p, d
		}
	}
	r.drawPolyline(g, s, []geometry.Point{best.Pos, world}, styleMarquee)
}
