package model

import "github.com/google/uuid"

// PasteOffset is the fixed world-space displacement applied to pasted clones.
const PasteOffset = 40.0

// PasteSuffix is appended to the name of every pasted clone.
const PasteSuffix = " copy"

// CloneForPaste clones a copied snapshot for pasting: every clone gets a new
// entity id, new attribute ids, the fixed position offset and the name suffix.
// The returned slice shares nothing with the snapshot.
func CloneForPaste(snapshot []EntityNode) []EntityNode {
	clones := make([]EntityNode, 0, len(snapshot))
	for _, src := range snapshot {
		c := src.Clone()
		c.ID = uuid.New().String()
		c.Name = src.Name + PasteSuffix
		if src.LogicalName != "" {
			c.LogicalName = src.LogicalName + PasteSuffix
		}
		c.X = src.X + PasteOffset
		c.Y = src.Y + PasteOffset
		for i := range c.Attributes {
			c.Attributes[i].ID = uuid.New().String()
		}
		clones = append(clones, c)
	}
	return clones
}

// RemoveEntities returns new collections with the given entities removed and
// every relationship referencing a removed entity pruned. Both results come
// back together so the caller can commit them as one batch.
func RemoveEntities(entities []EntityNode, rels []Relationship, ids map[string]struct{}) ([]EntityNode, []Relationship) {
	keptEntities := make([]EntityNode, 0, len(entities))
	for _, e := range entities {
		if _, gone := ids[e.ID]; !gone {
			keptEntities = append(keptEntities, e)
		}
	}
	return keptEntities, PruneDangling(keptEntities, rels)
}

// RemoveRelationship returns a new relationship slice without the given id.
func RemoveRelationship(rels []Relationship, id string) []Relationship {
	kept := make([]Relationship, 0, len(rels))
	for _, r := range rels {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return kept
}

// PruneDangling drops every relationship whose source or target does not
// resolve against the entity collection.
func PruneDangling(entities []EntityNode, rels []Relationship) []Relationship {
	present := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		present[e.ID] = struct{}{}
	}
	kept := make([]Relationship, 0, len(rels))
	for _, r := range rels {
		if _, ok := present[r.SourceID]; !ok {
			continue
		}
		if _, ok := present[r.TargetID]; !ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// CopySnapshot deep-copies the entities whose ids are selected, preserving
// collection order.
func CopySnapshot(entities []EntityNode, selected map[string]struct{}) []EntityNode {
	snap := make([]EntityNode, 0, len(selected))
	for _, e := range entities {
		if _, ok := selected[e.ID]; ok {
			snap = append(snap, e.Clone())
		}
	}
	return snap
}
