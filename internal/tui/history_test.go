package tui

import (
	"testing"

	"github.com/henghegou-crypto/datamodel/internal/model"
)

func snapOf(names ...string) snapshot {
	s := snapshot{}
	for _, n := range names {
		s.entities = append(s.entities, model.EntityNode{ID: n, Name: n})
	}
	return s
}

func TestHistoryUndoRedo(t *testing.T) {
	var h history
	h.push(snapOf("a"))
	h.push(snapOf("a", "b"))

	cur := snapOf("a", "b", "c")
	prev, ok := h.undo(cur)
	if !ok || len(prev.entities) != 2 {
		t.Fatalf("undo: ok=%v snapshot=%+v", ok, prev)
	}

	back, ok := h.redo(prev)
	if !ok || len(back.entities) != 3 {
		t.Fatalf("redo: ok=%v snapshot=%+v", ok, back)
	}
}

func TestHistoryEmptyUndo(t *testing.T) {
	var h history
	if _, ok := h.undo(snapshot{}); ok {
		t.Error("undo on empty history must fail")
	}
	if _, ok := h.redo(snapshot{}); ok {
		t.Error("redo on empty history must fail")
	}
}

func TestHistoryPushDiscardsRedo(t *testing.T) {
	var h history
	h.push(snapOf("a"))
	_, _ = h.undo(snapOf("a", "b"))
	h.push(snapOf("x"))
	if _, ok := h.redo(snapshot{}); ok {
		t.Error("redo stack must clear after a new commit")
	}
}

func TestHistoryLimit(t *testing.T) {
	var h history
	for i := 0; i < historyLimit+20; i++ {
		h.push(snapshot{})
	}
	if len(h.past) != historyLimit {
		t.Errorf("past = %d, want cap %d", len(h.past), historyLimit)
	}
}

func TestSessionApplyBatchPushesHistory(t *testing.T) {
	d := model.NewDiagram("x", model.KindLogical)
	d.Entities = []model.EntityNode{{ID: "e1", Name: "A"}}
	sess := &session{diagram: d}

	sess.ApplyBatch([]model.EntityNode{{ID: "e1", Name: "A"}, {ID: "e2", Name: "B"}}, nil)
	if !sess.dirty {
		t.Error("batch must mark the session dirty")
	}
	if len(d.Entities) != 2 {
		t.Errorf("entities = %d", len(d.Entities))
	}

	snap, ok := sess.hist.undo(sess.current())
	if !ok || len(snap.entities) != 1 {
		t.Fatalf("history snapshot: ok=%v %+v", ok, snap)
	}
	sess.restore(snap)
	if len(d.Entities) != 1 {
		t.Errorf("restore left %d entities", len(d.Entities))
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"shop", "shop"},
		{"a/b:c", "a-b-c"},
		{"  ", "diagram"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
