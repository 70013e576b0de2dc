package suggest

import (
	"context"
	"testing"

	"github.com/henghegou-crypto/datamodel/internal/model"
)

func TestHeuristicMatchesPattern(t *testing.T) {
	h := Heuristic{}
	got, err := h.Suggest(context.Background(), model.EntityNode{Name: "AppUser"})
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool, len(got))
	for _, a := range got {
		names[a.Name] = true
	}
	if !names["email"] {
		t.Errorf("user entity should suggest email, got %v", names)
	}
	if !names["id"] {
		t.Error("entity without a primary key should get an id suggestion")
	}
}

func TestHeuristicGenericFallback(t *testing.T) {
	h := Heuristic{}
	got, err := h.Suggest(context.Background(), model.EntityNode{Name: "Warehouse"})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, a := range got {
		if a.Name == "created_at" {
			found = true
		}
	}
	if !found {
		t.Errorf("generic suggestions expected, got %v", got)
	}
}

func TestHeuristicSkipsExisting(t *testing.T) {
	h := Heuristic{}
	e := model.EntityNode{
		Name: "User",
		Attributes: []model.Attribute{
			{ID: "a1", Name: "Email"},
			{ID: "a2", Name: "id", PrimaryKey: true},
		},
	}
	got, err := h.Suggest(context.Background(), e)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range got {
		if a.Name == "email" || a.Name == "id" {
			t.Errorf("suggested duplicate %q", a.Name)
		}
	}
}

func TestHeuristicAssignsIDs(t *testing.T) {
	h := Heuristic{}
	got, _ := h.Suggest(context.Background(), model.EntityNode{Name: "Product"})
	seen := make(map[string]bool)
	for _, a := range got {
		if a.ID == "" {
			t.Fatalf("attribute %q has no id", a.Name)
		}
		if seen[a.ID] {
			t.Fatalf("duplicate id %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestHeuristicHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Heuristic{}).Suggest(ctx, model.EntityNode{Name: "User"}); err == nil {
		t.Error("cancelled context must return an error")
	}
}
