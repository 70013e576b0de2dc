package canvas

import "github.com/henghegou-crypto/datamodel/internal/model"

// Copy snapshots the selected entities into the internal clipboard and
// returns the snapshot so the host can mirror it to the system clipboard.
func (c *Controller) Copy() []model.EntityNode {
	if len(c.selected) == 0 {
		return nil
	}
	c.clipboard = model.CopySnapshot(c.entities, c.selected)
	return c.clipboard
}

// Paste clones the internal clipboard into the diagram with fresh ids, the
// fixed offset and renamed clones, then selects the clones.
func (c *Controller) Paste() {
	c.PasteSnapshot(c.clipboard)
}

// PasteSnapshot pastes an explicit snapshot; used when the system clipboard
// carried entities copied from another session.
func (c *Controller) PasteSnapshot(snapshot []model.EntityNode) {
	if len(snapshot) == 0 {
		return
	}
	clones := model.CloneForPaste(snapshot)
	merged := make([]model.EntityNode, 0, len(c.entities)+len(clones))
	merged = append(merged, c.entities...)
	merged = append(merged, clones...)
	c.entities = merged

	clear(c.selected)
	c.selectedRel = ""
	for _, e := range clones {
		c.selected[e.ID] = struct{}{}
	}
	c.sink.ApplyBatch(merged, c.rels)
}

// DeleteSelection removes the selected relationship, or the selected
// entities together with every relationship referencing them. Entities and
// relationships leave in the same batch so no dangling reference is ever
// observable.
func (c *Controller) DeleteSelection() {
	if c.selectedRel != "" {
		c.rels = model.RemoveRelationship(c.rels, c.selectedRel)
		c.selectedRel = ""
		c.sink.ApplyBatch(c.entities, c.rels)
		return
	}
	if len(c.selected) == 0 {
		return
	}
	c.entities, c.rels = model.RemoveEntities(c.entities, c.rels, c.selected)
	clear(c.selected)
	c.sink.ApplyBatch(c.entities, c.rels)
}

// SelectAll selects every entity and clears any relationship selection.
func (c *Controller) SelectAll() {
	c.selectedRel = ""
	for _, e := range c.entities {
		c.selected[e.ID] = struct{}{}
	}
}

// AddEntity appends a new entity and selects it.
func (c *Controller) AddEntity(e model.EntityNode) {
	merged := make([]model.EntityNode, 0, len(c.entities)+1)
	merged = append(merged, c.entities...)
	merged = append(merged, e)
	c.entities = merged
	clear(c.selected)
	c.selectedRel = ""
	c.selected[e.ID] = struct{}{}
	c.sink.ApplyBatch(merged, c.rels)
}

// ReplaceEntity swaps one entity by id, e.g. after the edit form closes or
// a suggestion batch lands.
func (c *Controller) ReplaceEntity(e model.EntityNode) {
	merged := make([]model.EntityNode, len(c.entities))
	copy(merged, c.entities)
	for i := range merged {
		if merged[i].ID == e.ID {
			merged[i] = e
			c.entities = merged
			c.sink.ApplyBatch(merged, c.rels)
			return
		}
	}
}

// ToggleCollapsed flips the collapse affordance of the given entity.
func (c *Controller) ToggleCollapsed(id string) {
	e, ok := model.FindEntity(c.entities, id)
	if !ok {
		return
	}
	e.Collapsed = !e.Collapsed
	c.ReplaceEntity(e)
}
