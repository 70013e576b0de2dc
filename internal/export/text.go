package export

import (
	"os"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
	"github.com/henghegou-crypto/datamodel/internal/render"
	"github.com/henghegou-crypto/datamodel/internal/viewport"
)

// ToText writes the diagram as plain text: the same cell rendering as the
// screen, at zoom 1 with no selection affordances, fitted to the content.
func ToText(d *model.Diagram, ctx geometry.Context, filename string) error {
	bounds := contentBounds(d, ctx)

	view := &viewport.Viewport{
		Offset: geometry.Point{X: margin - bounds.X, Y: margin - bounds.Y},
		Zoom:   1,
	}
	cols := int((bounds.W+2*margin)/render.CellW) + 1
	rows := int((bounds.H+2*margin)/render.CellH) + 1

	s := render.Scene{
		Entities:      d.Entities,
		Relationships: d.Relationships,
		View:          view,
		Ctx:           ctx,
		ScreenW:       float64(cols) * render.CellW,
		ScreenH:       float64(rows) * render.CellH,
	}
	g := render.New().RenderGrid(s, cols, rows)
	return os.WriteFile(filename, []byte(g.Plain()+"\n"), 0o644)
}
