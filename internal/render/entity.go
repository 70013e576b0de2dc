package render

import (
	"fmt"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

// entityStrategy is the per-representation-kind drawing strategy, selected
// once per entity instead of branching inside the draw code.
type entityStrategy interface {
	draw(g *Grid, r *Renderer, s Scene, e model.EntityNode, box geometry.Rect)
}

var (
	conceptualDrawer = conceptualStrategy{}
	tabularDrawer    = tabularStrategy{}
)

func (r *Renderer) entityStrategy(kind model.RepresentationKind) entityStrategy {
	if kind == model.KindConceptual {
		return conceptualDrawer
	}
	return tabularDrawer
}

func borderStyle(s Scene, id string) styleID {
	if _, ok := s.Selected[id]; ok {
		return styleBorderSelected
	}
	return styleBorder
}

// screenCells converts a world box to inclusive cell bounds.
func screenCells(s Scene, box geometry.Rect) (x0, y0, x1, y1 int) {
	tl := s.View.WorldToScreen(geometry.Point{X: box.X, Y: box.Y})
	br := s.View.WorldToScreen(geometry.Point{X: box.Right(), Y: box.Bottom()})
	return cellRect(geometry.Rect{X: tl.X, Y: tl.Y, W: br.X - tl.X, H: br.Y - tl.Y})
}

func drawFrame(g *Grid, x0, y0, x1, y1 int, id styleID) {
	for x := x0 + 1; x < x1; x++ {
		g.Set(x, y0, '─', id)
		g.Set(x, y1, '─', id)
	}
	for y := y0 + 1; y < y1; y++ {
		g.Set(x0, y, '│', id)
		g.Set(x1, y, '│', id)
	}
	g.Set(x0, y0, '╭', id)
	g.Set(x1, y0, '╮', id)
	g.Set(x0, y1, '╰', id)
	g.Set(x1, y1, '╯', id)
}

// clearInterior blanks the box so relationship strokes never bleed through.
func clearInterior(g *Grid, x0, y0, x1, y1 int) {
	for y := y0 + 1; y < y1; y++ {
		for x := x0 + 1; x < x1; x++ {
			g.Set(x, y, ' ', styleNone)
		}
	}
}

func fitText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// conceptualStrategy draws the fixed small box with just the display name.
type conceptualStrategy struct{}

func (conceptualStrategy) draw(g *Grid, r *Renderer, s Scene, e model.EntityNode, box geometry.Rect) {
	x0, y0, x1, y1 := screenCells(s, box)
	clearInterior(g, x0, y0, x1, y1)
	drawFrame(g, x0, y0, x1, y1, borderStyle(s, e.ID))
	name := fitText(e.DisplayName(), x1-x0-1)
	midY := (y0 + y1) / 2
	startX := x0 + 1 + (x1-x0-1-len([]rune(name)))/2
	g.Text(startX, midY, name, styleHeader)
	if s.Loading[e.ID] {
		g.Set(x1-1, y0, '…', styleLoading)
	}
}

// tabularStrategy draws the header / attribute rows / footer box used by the
// logical, physical and dimensional kinds.
type tabularStrategy struct{}

func (tabularStrategy) draw(g *Grid, r *Renderer, s Scene, e model.EntityNode, box geometry.Rect) {
	x0, y0, x1, y1 := screenCells(s, box)
	clearInterior(g, x0, y0, x1, y1)
	border := borderStyle(s, e.ID)
	drawFrame(g, x0, y0, x1, y1, border)

	inner := x1 - x0 - 3
	g.Text(x0+2, y0+1, fitText(e.DisplayName(), inner), styleHeader)
	if s.Loading[e.ID] {
		g.Set(x1-1, y0, '…', styleLoading)
	}

	sepY := y0 + 2
	if sepY < y1 {
		for x := x0 + 1; x < x1; x++ {
			g.Set(x, sepY, '─', border)
		}
		g.Set(x0, sepY, '├', border)
		g.Set(x1, sepY, '┤', border)
	}

	rows, footer := geometry.VisibleAttributes(e, s.Ctx)
	maxY := y1
	if footer {
		maxY = y1 - 1 // keep the bottom interior row for the footer
	}
	y := sepY + 1
	for i := 0; i < rows && i < len(e.Attributes); i++ {
		if y >= maxY {
			break
		}
		a := e.Attributes[i]
		style := styleAttr
		marker := "  "
		if a.PrimaryKey {
			style = styleAttrKey
			marker = "◦ "
		}
		line := marker + a.Name
		if a.DataType != "" {
			line += fmt.Sprintf(" %s", a.DataType)
		}
		g.Text(x0+1, y, fitText(line, inner+1), style)
		y++
	}
	if footer {
		text := "⌃ less"
		if e.Collapsed {
			text = fmt.Sprintf("⌄ %d more", len(e.Attributes)-rows)
		}
		g.Text(x0+2, y1-1, fitText(text, inner), styleFooter)
	}
}
