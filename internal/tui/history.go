package tui

import "github.com/henghegou-crypto/datamodel/internal/model"

const historyLimit = 100

// snapshot is one undoable state of the two collections.
type snapshot struct {
	entities []model.EntityNode
	rels     []model.Relationship
}

// history is an undo/redo stack of full snapshots. Every committed batch
// pushes the state it replaced; a new commit after undo discards the redo
// stack.
type history struct {
	past   []snapshot
	future []snapshot
}

func (h *history) push(s snapshot) {
	h.past = append(h.past, s)
	if len(h.past) > historyLimit {
		h.past = h.past[1:]
	}
	h.future = h.future[:0]
}

// undo swaps current for the newest past snapshot. ok is false when there is
// nothing to undo.
func (h *history) undo(current snapshot) (snapshot, bool) {
	if len(h.past) == 0 {
		return snapshot{}, false
	}
	last := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return last, true
}

func (h *history) redo(current snapshot) (snapshot, bool) {
	if len(h.future) == 0 {
		return snapshot{}, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return next, true
}
