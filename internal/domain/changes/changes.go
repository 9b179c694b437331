// Package changes is the diff engine of the flow canvas.
//
// PURPOSE: Computes typed change records for node and edge mutations and
// merges lists of such records into a collection.
//
// DOMAIN ROLE: Change records are the only channel through which the store
// reports mutations to the outside. They are ephemeral: produced, consumed and
// discarded. Every function here is pure; inputs are never modified.
package changes

import (
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
)

// Type tags a change record.
type Type string

const (
	TypeAdd        Type = "add"
	TypeRemove     Type = "remove"
	TypeReset      Type = "reset"
	TypePosition   Type = "position"
	TypeDimensions Type = "dimensions"
	TypeSelect     Type = "select"
)

// NodeChange is one atomic mutation of a node. Which fields are meaningful
// depends on Type:
//
//	add, reset   Item
//	remove       ID
//	position     ID, Position, PositionAbsolute, Dragging
//	dimensions   ID, Dimensions
//	select       ID, Selected
type NodeChange struct {
	Type             Type                 `json:"type"`
	ID               string               `json:"id,omitempty"`
	Item             *node.Node           `json:"item,omitempty"`
	Position         *geometry.XYPosition `json:"position,omitempty"`
	PositionAbsolute *geometry.XYPosition `json:"positionAbsolute,omitempty"`
	Dragging         bool                 `json:"dragging,omitempty"`
	Dimensions       *geometry.Dimensions `json:"dimensions,omitempty"`
	Selected         bool                 `json:"selected,omitempty"`
}

// TargetID returns the id the record applies to.
func (c NodeChange) TargetID() string {
	if c.Item != nil && c.ID == "" {
		return c.Item.ID
	}
	return c.ID
}

// EdgeChange is one atomic mutation of an edge. Edges support add, remove,
// reset and select.
type EdgeChange struct {
	Type     Type       `json:"type"`
	ID       string     `json:"id,omitempty"`
	Item     *edge.Edge `json:"item,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// TargetID returns the id the record applies to.
func (c EdgeChange) TargetID() string {
	if c.Item != nil && c.ID == "" {
		return c.Item.ID
	}
	return c.ID
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

// NodeSelection builds a select record for a node.
func NodeSelection(id string, selected bool) NodeChange {
	return NodeChange{Type: TypeSelect, ID: id, Selected: selected}
}

// EdgeSelection builds a select record for an edge.
func EdgeSelection(id string, selected bool) EdgeChange {
	return EdgeChange{Type: TypeSelect, ID: id, Selected: selected}
}

// NodeAdd builds an add record.
func NodeAdd(n node.Node) NodeChange {
	return NodeChange{Type: TypeAdd, ID: n.ID, Item: &n}
}

// NodeReset builds a reset record.
func NodeReset(n node.Node) NodeChange {
	return NodeChange{Type: TypeReset, ID: n.ID, Item: &n}
}

// NodeRemove builds a remove record.
func NodeRemove(id string) NodeChange {
	return NodeChange{Type: TypeRemove, ID: id}
}

// NodeDimensions builds a dimensions record.
func NodeDimensions(id string, d geometry.Dimensions) NodeChange {
	return NodeChange{Type: TypeDimensions, ID: id, Dimensions: &d}
}

// NodePosition builds a position record.
func NodePosition(id string, pos, abs geometry.XYPosition, dragging bool) NodeChange {
	return NodeChange{Type: TypePosition, ID: id, Position: &pos, PositionAbsolute: &abs, Dragging: dragging}
}

// EdgeAdd builds an add record.
func EdgeAdd(e edge.Edge) EdgeChange {
	return EdgeChange{Type: TypeAdd, ID: e.ID, Item: &e}
}

// EdgeReset builds a reset record.
func EdgeReset(e edge.Edge) EdgeChange {
	return EdgeChange{Type: TypeReset, ID: e.ID, Item: &e}
}

// EdgeRemove builds a remove record.
func EdgeRemove(id string) EdgeChange {
	return EdgeChange{Type: TypeRemove, ID: id}
}
