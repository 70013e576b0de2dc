package model

import (
	"strings"
	"testing"
)

func TestCloneForPaste(t *testing.T) {
	src := []EntityNode{
		{
			ID:          "e1",
			Name:        "Customer",
			LogicalName: "Kunde",
			X:           100,
			Y:           100,
			Attributes:  []Attribute{{ID: "a1", Name: "id", PrimaryKey: true}},
		},
	}
	clones := CloneForPaste(src)
	if len(clones) != 1 {
		t.Fatalf("clone count = %d", len(clones))
	}
	c := clones[0]
	if c.ID == "e1" {
		t.Error("clone kept the source entity id")
	}
	if c.Attributes[0].ID == "a1" {
		t.Error("clone kept the source attribute id")
	}
	if c.Name != "Customer"+PasteSuffix {
		t.Errorf("name = %q", c.Name)
	}
	if c.LogicalName != "Kunde"+PasteSuffix {
		t.Errorf("logical name = %q", c.LogicalName)
	}
	if c.X != 100+PasteOffset || c.Y != 100+PasteOffset {
		t.Errorf("position (%v,%v)", c.X, c.Y)
	}

	// Mutating the clone must not touch the source.
	c.Attributes[0].Name = "changed"
	if src[0].Attributes[0].Name != "id" {
		t.Error("clone shares attribute storage with the source")
	}
}

func TestCloneForPasteDistinctIDs(t *testing.T) {
	src := []EntityNode{{ID: "e1", Name: "A"}}
	a := CloneForPaste(src)
	b := CloneForPaste(src)
	if a[0].ID == b[0].ID {
		t.Error("two pastes produced the same id")
	}
}

func TestRemoveEntitiesPrunes(t *testing.T) {
	entities := []EntityNode{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	rels := []Relationship{
		{ID: "r1", SourceID: "a", TargetID: "b"},
		{ID: "r2", SourceID: "b", TargetID: "c"},
		{ID: "r3", SourceID: "a", TargetID: "c"},
	}
	gotE, gotR := RemoveEntities(entities, rels, map[string]struct{}{"b": {}})
	if len(gotE) != 2 {
		t.Fatalf("entities = %d, want 2", len(gotE))
	}
	if len(gotR) != 1 || gotR[0].ID != "r3" {
		t.Errorf("relationships = %+v, want only r3", gotR)
	}
}

func TestRemoveRelationship(t *testing.T) {
	rels := []Relationship{{ID: "r1"}, {ID: "r2"}}
	got := RemoveRelationship(rels, "r1")
	if len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("got %+v", got)
	}
}

func TestPruneDangling(t *testing.T) {
	entities := []EntityNode{{ID: "a"}}
	rels := []Relationship{
		{ID: "ok", SourceID: "a", TargetID: "a"},
		{ID: "bad", SourceID: "a", TargetID: "gone"},
	}
	got := PruneDangling(entities, rels)
	if len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("got %+v", got)
	}
}

func TestCopySnapshotPreservesOrder(t *testing.T) {
	entities := []EntityNode{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	snap := CopySnapshot(entities, map[string]struct{}{"c": {}, "a": {}})
	if len(snap) != 2 || snap[0].ID != "a" || snap[1].ID != "c" {
		t.Errorf("got %+v", snap)
	}
}

func TestDisplayName(t *testing.T) {
	e := EntityNode{Name: "customer", LogicalName: "Customer Account"}
	if e.DisplayName() != "Customer Account" {
		t.Errorf("got %q", e.DisplayName())
	}
	e.LogicalName = ""
	if e.DisplayName() != "customer" {
		t.Errorf("got %q", e.DisplayName())
	}
}

func TestNewRelationshipDefaults(t *testing.T) {
	r := NewRelationship("a", "b")
	if r.Cardinality != OneToMany || r.Style != StyleStraight {
		t.Errorf("defaults: %+v", r)
	}
	if r.SourceMarker != MarkerBar || r.TargetMarker != MarkerCrowFoot {
		t.Errorf("markers: %+v", r)
	}
	if r.ID == "" || strings.TrimSpace(r.ID) == "" {
		t.Error("missing id")
	}
}
