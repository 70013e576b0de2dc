// Package model holds the diagram data model: entities, attributes and
// relationships. The canvas never mutates these collections in place; every
// edit produces new slices that are handed back to the owner.
package model

import "github.com/google/uuid"

// RepresentationKind is the diagram's modeling mode. It governs entity
// visuals and which editing sections are available.
type RepresentationKind string

const (
	KindConceptual  RepresentationKind = "conceptual"
	KindLogical     RepresentationKind = "logical"
	KindPhysical    RepresentationKind = "physical"
	KindDimensional RepresentationKind = "dimensional"
)

// Cardinality tags a relationship end-to-end multiplicity.
type Cardinality string

const (
	OneToOne   Cardinality = "one_to_one"
	OneToMany  Cardinality = "one_to_many"
	ManyToOne  Cardinality = "many_to_one"
	ManyToMany Cardinality = "many_to_many"
)

// LineStyle selects how a relationship path is routed.
type LineStyle string

const (
	StyleStraight LineStyle = "straight"
	StyleCurve    LineStyle = "curve"
	StyleStep     LineStyle = "step"
)

// MarkerKind is the glyph drawn at a relationship end.
type MarkerKind string

const (
	MarkerNone     MarkerKind = "none"
	MarkerArrow    MarkerKind = "arrow"
	MarkerCrowFoot MarkerKind = "crowfoot"
	MarkerBar      MarkerKind = "bar"
)

// Attribute is one row of an entity.
type Attribute struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DataType   string `json:"dataType"`
	PrimaryKey bool   `json:"primaryKey"`
	Nullable   bool   `json:"nullable"`
}

// EntityNode is a diagram node. Position is in world units. Width/Height of
// zero mean "computed from content"; explicit values always win.
type EntityNode struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	LogicalName string      `json:"logicalName,omitempty"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width,omitempty"`
	Height      float64     `json:"height,omitempty"`
	Attributes  []Attribute `json:"attributes"`
	Color       string      `json:"color,omitempty"`
	Collapsed   bool        `json:"collapsed,omitempty"`
}

// DisplayName prefers the logical name when the entity has one.
func (e EntityNode) DisplayName() string {
	if e.LogicalName != "" {
		return e.LogicalName
	}
	return e.Name
}

// Clone returns a deep copy of the entity.
func (e EntityNode) Clone() EntityNode {
	out := e
	out.Attributes = make([]Attribute, len(e.Attributes))
	copy(out.Attributes, e.Attributes)
	return out
}

// Relationship is a directed, typed link between two entities. SourceID and
// TargetID are foreign references into the entity collection; a relationship
// whose reference no longer resolves is invalid and must be pruned.
type Relationship struct {
	ID           string      `json:"id"`
	SourceID     string      `json:"sourceId"`
	TargetID     string      `json:"targetId"`
	Cardinality  Cardinality `json:"cardinality"`
	Style        LineStyle   `json:"style"`
	SourceMarker MarkerKind  `json:"sourceMarker,omitempty"`
	TargetMarker MarkerKind  `json:"targetMarker,omitempty"`
	Label        string      `json:"label,omitempty"`
}

// Diagram bundles the two collections with their representation kind.
type Diagram struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Kind          RepresentationKind `json:"kind"`
	Entities      []EntityNode       `json:"entities"`
	Relationships []Relationship     `json:"relationships"`
}

// NewDiagram creates an empty diagram of the given kind.
func NewDiagram(name string, kind RepresentationKind) *Diagram {
	return &Diagram{
		ID:   uuid.New().String(),
		Name: name,
		Kind: kind,
	}
}

// NewEntity creates an entity at the given world position with a generated id.
func NewEntity(name string, x, y float64) EntityNode {
	return EntityNode{
		ID:   uuid.New().String(),
		Name: name,
		X:    x,
		Y:    y,
	}
}

// NewRelationship links source to target with the editor defaults:
// one-to-many cardinality, straight line, crow's foot at the many end.
func NewRelationship(sourceID, targetID string) Relationship {
	return Relationship{
		ID:           uuid.New().String(),
		SourceID:     sourceID,
		TargetID:     targetID,
		Cardinality:  OneToMany,
		Style:        StyleStraight,
		SourceMarker: MarkerBar,
		TargetMarker: MarkerCrowFoot,
	}
}

// FindEntity returns the entity with the given id, or false.
func FindEntity(entities []EntityNode, id string) (EntityNode, bool) {
	for _, e := range entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityNode{}, false
}
