package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/henghegou-crypto/datamodel/internal/geometry"
	"github.com/henghegou-crypto/datamodel/internal/model"
)

func TestToPNGWritesFile(t *testing.T) {
	d := model.NewDiagram("shop", model.KindLogical)
	a := model.NewEntity("Customer", 100, 100)
	a.Attributes = []model.Attribute{{ID: "x", Name: "id", DataType: "UUID", PrimaryKey: true}}
	b := model.NewEntity("Order", 500, 150)
	d.Entities = []model.EntityNode{a, b}
	rel := model.NewRelationship(a.ID, b.ID)
	rel.Label = "places"
	d.Relationships = []model.Relationship{rel}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := ToPNG(d, geometry.Context{Kind: model.KindLogical}, path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("wrote an empty file")
	}
}

func TestToPNGEmptyDiagram(t *testing.T) {
	d := model.NewDiagram("empty", model.KindLogical)
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := ToPNG(d, geometry.Context{Kind: model.KindLogical}, path); err != nil {
		t.Fatal(err)
	}
}

func TestToTextWritesRendering(t *testing.T) {
	d := model.NewDiagram("shop", model.KindLogical)
	e := model.NewEntity("Customer", 100, 100)
	d.Entities = []model.EntityNode{e}

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := ToText(d, geometry.Context{Kind: model.KindLogical}, path); err != nil {
		t.Fatal(err)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(blob)
	if !strings.Contains(text, "Customer") {
		t.Errorf("output missing entity name:\n%s", text)
	}
	if !strings.Contains(text, "┌") {
		t.Error("output missing box frame")
	}
}

func TestContentBounds(t *testing.T) {
	d := model.NewDiagram("x", model.KindLogical)
	d.Entities = []model.EntityNode{
		{ID: "a", X: 100, Y: 100},
		{ID: "b", X: 500, Y: 150},
	}
	b := contentBounds(d, geometry.Context{Kind: model.KindLogical})
	if b.X != 100 || b.Y != 100 {
		t.Errorf("origin (%v,%v)", b.X, b.Y)
	}
	if b.Right() != 500+geometry.DefaultWidth {
		t.Errorf("right = %v", b.Right())
	}
}
