package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/henghegou-crypto/datamodel/internal/canvas"
	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

func TestEscDeselectsRelationship(t *testing.T) {
	d := model.NewDiagram("x", model.KindLogical)
	d.Entities = []model.EntityNode{
		{ID: "e1", Name: "Customer", X: 100, Y: 100},
		{ID: "e2", Name: "Order", X: 500, Y: 150},
	}
	d.Relationships = []model.Relationship{
		{ID: "r1", SourceID: "e1", TargetID: "e2", Style: model.StyleStraight},
	}
	m := newTestModel(d)

	// Straight path midpoint between the boxes.
	mid := geometry.Point{X: 400, Y: 145}
	m.ctrl.PointerDown(canvas.PointerEvent{Screen: mid, Button: canvas.ButtonLeft})
	m.ctrl.PointerUp(canvas.PointerEvent{Screen: mid, Button: canvas.ButtonLeft})
	if m.ctrl.SelectedRelationship() != "r1" {
		t.Fatalf("selected rel = %q, want r1", m.ctrl.SelectedRelationship())
	}

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(Model)
	if m.ctrl.SelectedRelationship() != "" {
		t.Error("esc must deselect the relationship")
	}
	if len(m.ctrl.Selected()) != 0 {
		t.Error("esc must leave no entity selected")
	}
}
