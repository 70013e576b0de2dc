// Package export renders a diagram to a PNG image. Export works in world
// coordinates at a fixed scale, so the output is independent of the current
// viewport and terminal size.
package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

const (
	margin   = 40.0
	fontSize = 13.0
	rowPad   = 6.0
)

var (
	bgColor       = color.White
	frameColor    = color.RGBA{60, 60, 70, 255}
	headerColor   = color.RGBA{40, 70, 140, 255}
	strokeColor   = color.RGBA{90, 90, 100, 255}
	textColor     = color.Black
	headerFill    = color.RGBA{230, 236, 248, 255}
	footerColor   = color.RGBA{130, 130, 140, 255}
	labelBgColor  = color.RGBA{255, 255, 255, 230}
	labelInkColor = color.RGBA{80, 80, 90, 255}
)

// ToPNG writes the diagram to filename. The image is sized to the content
// bounding box plus a margin; an empty diagram still produces a small image.
func ToPNG(d *model.Diagram, ctx geometry.Context, filename string) error {
	bounds := contentBounds(d, ctx)

	w := int(bounds.W + 2*margin)
	h := int(bounds.H + 2*margin)
	dc := gg.NewContext(w, h)
	dc.SetColor(bgColor)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	// Shift world so the content top-left lands at the margin.
	ox := margin - bounds.X
	oy := margin - bounds.Y

	boxes := make(map[string]geometry.Rect, len(d.Entities))
	for _, e := range d.Entities {
		boxes[e.ID] = geometry.BoundingBox(e, ctx)
	}

	for _, r := range d.Relationships {
		src, ok := boxes[r.SourceID]
		if !ok {
			continue
		}
		dst, ok := boxes[r.TargetID]
		if !ok {
			continue
		}
		drawRelationship(dc, r, src, dst, ox, oy)
	}
	for _, e := range d.Entities {
		drawEntity(dc, e, boxes[e.ID], ctx, ox, oy)
	}

	return dc.SavePNG(filename)
}

func contentBounds(d *model.Diagram, ctx geometry.Context) geometry.Rect {
	if len(d.Entities) == 0 {
		return geometry.Rect{W: 400, H: 240}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range d.Entities {
		b := geometry.BoundingBox(e, ctx)
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.Right())
		maxY = math.Max(maxY, b.Bottom())
	}
	return geometry.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func drawEntity(dc *gg.Context, e model.EntityNode, box geometry.Rect, ctx geometry.Context, ox, oy float64) {
	x := box.X + ox
	y := box.Y + oy

	dc.SetColor(bgColor)
	dc.DrawRoundedRectangle(x, y, box.W, box.H, 6)
	dc.Fill()

	if ctx.Kind == model.KindConceptual {
		dc.SetColor(frameColor)
		dc.SetLineWidth(1.5)
		dc.DrawRoundedRectangle(x, y, box.W, box.H, 6)
		dc.Stroke()
		dc.SetColor(headerColor)
		dc.DrawStringAnchored(e.DisplayName(), x+box.W/2, y+box.H/2, 0.5, 0.35)
		return
	}

	dc.SetColor(headerFill)
	dc.DrawRoundedRectangle(x, y, box.W, geometry.HeaderHeight, 6)
	dc.Fill()
	dc.SetColor(headerFill)
	dc.DrawRectangle(x, y+geometry.HeaderHeight/2, box.W, geometry.HeaderHeight/2)
	dc.Fill()

	dc.SetColor(frameColor)
	dc.SetLineWidth(1.5)
	dc.DrawRoundedRectangle(x, y, box.W, box.H, 6)
	dc.Stroke()
	dc.DrawLine(x, y+geometry.HeaderHeight, x+box.W, y+geometry.HeaderHeight)
	dc.Stroke()

	dc.SetColor(headerColor)
	dc.DrawStringAnchored(e.DisplayName(), x+box.W/2, y+geometry.HeaderHeight/2, 0.5, 0.35)

	rows, footer := geometry.VisibleAttributes(e, ctx)
	rowY := y + geometry.HeaderHeight
	for i := 0; i < rows && i < len(e.Attributes); i++ {
		a := e.Attributes[i]
		line := a.Name
		if a.PrimaryKey {
			line = "◦ " + line
		} else {
			line = "  " + line
		}
		if a.DataType != "" {
			line += "  " + a.DataType
		}
		dc.SetColor(textColor)
		dc.DrawString(line, x+rowPad, rowY+geometry.RowHeight-rowPad)
		rowY += geometry.RowHeight
	}
	if footer {
		text := "less"
		if e.Collapsed {
			text = fmt.Sprintf("%d more", len(e.Attributes)-rows)
		}
		dc.SetColor(footerColor)
		dc.DrawString(text, x+rowPad, rowY+geometry.FooterHeight-rowPad)
	}
}

func drawRelationship(dc *gg.Context, r model.Relationship, src, dst geometry.Rect, ox, oy float64) {
	start, end := geometry.BestConnection(src, dst)
	path := geometry.RoutePath(r.Style, start, end)
	pts := path.Flatten(48)

	dc.SetColor(strokeColor)
	dc.SetLineWidth(1.5)
	dc.MoveTo(pts[0].X+ox, pts[0].Y+oy)
	for _, p := range pts[1:] {
		dc.LineTo(p.X+ox, p.Y+oy)
	}
	dc.Stroke()

	if len(pts) >= 2 {
		drawMarker(dc, r.SourceMarker, pts[0], pts[1], ox, oy)
		drawMarker(dc, r.TargetMarker, pts[len(pts)-1], pts[len(pts)-2], ox, oy)
	}

	if r.Label != "" {
		lw, lh := dc.MeasureString(r.Label)
		lx := path.Label.X + ox
		ly := path.Label.Y + oy
		dc.SetColor(labelBgColor)
		dc.DrawRectangle(lx-lw/2-4, ly-lh/2-2, lw+8, lh+4)
		dc.Fill()
		dc.SetColor(labelInkColor)
		dc.DrawStringAnchored(r.Label, lx, ly, 0.5, 0.35)
	}
}

// drawMarker draws the end decoration at tip, oriented away from prev.
func drawMarker(dc *gg.Context, kind model.MarkerKind, tip, prev geometry.Point, ox, oy float64) {
	if kind == model.MarkerNone || kind == "" {
		return
	}
	tx, ty := tip.X+ox, tip.Y+oy
	angle := math.Atan2(tip.Y-prev.Y, tip.X-prev.X)
	size := 9.0

	dc.SetColor(strokeColor)
	switch kind {
	case model.MarkerArrow:
		bx1 := tx - size*math.Cos(angle-0.4)
		by1 := ty - size*math.Sin(angle-0.4)
		bx2 := tx - size*math.Cos(angle+0.4)
		by2 := ty - size*math.Sin(angle+0.4)
		dc.MoveTo(tx, ty)
		dc.LineTo(bx1, by1)
		dc.LineTo(bx2, by2)
		dc.ClosePath()
		dc.Fill()
	case model.MarkerCrowFoot:
		bx := tx - size*math.Cos(angle)
		by := ty - size*math.Sin(angle)
		nx := -math.Sin(angle) * size * 0.6
		ny := math.Cos(angle) * size * 0.6
		dc.MoveTo(bx, by)
		dc.LineTo(tx+nx, ty+ny)
		dc.MoveTo(bx, by)
		dc.LineTo(tx, ty)
		dc.MoveTo(bx, by)
		dc.LineTo(tx-nx, ty-ny)
		dc.Stroke()
	case model.MarkerBar:
		bx := tx - size*0.7*math.Cos(angle)
		by := ty - size*0.7*math.Sin(angle)
		nx := -math.Sin(angle) * size * 0.5
		ny := math.Cos(angle) * size * 0.5
		dc.MoveTo(bx+nx, by+ny)
		dc.LineTo(bx-nx, by-ny)
		dc.Stroke()
	}
}
