// Package node implements the Node entity of the flow canvas.
//
// PURPOSE: A node is a positioned, optionally nested box on the canvas that
// edges attach to through named handles.
//
// DOMAIN ROLE: Node is a plain value. The store owns the collection through
// Internals, an immutable id index that also derives the internal fields
// (absolute position, layer, parent flag) from the caller supplied ones.
//
// KEY RULES:
//   - Absolute position is the local position plus every ancestor's offset
//   - A parent id that would close a cycle is dropped on insert
//   - The derived layer is the explicit zIndex, else 1000 when selected, else 0
package node

import (
	"flowcanvas/internal/domain/geometry"
)

// SelectedZ is the layer a selected node without an explicit zIndex is lifted to.
const SelectedZ = 1000

// Extent constrains where a node may be dragged. Either Parent is set, in
// which case the node must stay inside its parent's box, or Coordinates
// bounds the node in graph space.
type Extent struct {
	Parent      bool                       `json:"parent,omitempty" yaml:"parent,omitempty"`
	Coordinates geometry.CoordinateExtent `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// ParentExtent keeps a node inside its parent.
func ParentExtent() *Extent {
	return &Extent{Parent: true}
}

// CoordinateExtent keeps a node inside a fixed graph-space box.
func CoordinateExtent(e geometry.CoordinateExtent) *Extent {
	return &Extent{Coordinates: e}
}

// Node is a single box on the canvas.
//
// Fields in the first block are owned by the caller. Fields in the second
// block are maintained by the store and are stripped by Public.
type Node struct {
	ID       string              `json:"id" yaml:"id" validate:"required"`
	Type     string              `json:"type,omitempty" yaml:"type,omitempty"`
	Class    string              `json:"class,omitempty" yaml:"class,omitempty"`
	Position geometry.XYPosition `json:"position" yaml:"position"`
	Data     any                 `json:"data,omitempty" yaml:"data,omitempty"`

	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	ParentID     string  `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Extent       *Extent `json:"extent,omitempty" yaml:"extent,omitempty"`
	ExpandParent bool    `json:"expandParent,omitempty" yaml:"expandParent,omitempty"`
	ZIndex       *int    `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`

	Selected bool `json:"selected,omitempty" yaml:"selected,omitempty"`
	Dragging bool `json:"dragging,omitempty" yaml:"dragging,omitempty"`
	Hidden   bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`

	// nil means "use the store wide default"
	Draggable   *bool `json:"draggable,omitempty" yaml:"draggable,omitempty"`
	Selectable  *bool `json:"selectable,omitempty" yaml:"selectable,omitempty"`
	Connectable *bool `json:"connectable,omitempty" yaml:"connectable,omitempty"`

	// Internal fields.
	PositionAbsolute geometry.XYPosition `json:"positionAbsolute" yaml:"-"`
	Z                int                 `json:"z" yaml:"-"`
	HandleBounds     *HandleBounds       `json:"handleBounds,omitempty" yaml:"-"`
	IsParent         bool                `json:"isParent,omitempty" yaml:"-"`
}

// Dimensions returns the measured size, zero when unknown.
func (n Node) Dimensions() geometry.Dimensions {
	return geometry.Dimensions{Width: n.Width, Height: n.Height}
}

// Rect returns the node's box in graph space.
func (n Node) Rect() geometry.Rect {
	return geometry.Rect{
		X:      n.PositionAbsolute.X,
		Y:      n.PositionAbsolute.Y,
		Width:  n.Width,
		Height: n.Height,
	}
}

// Public returns a copy without the store maintained fields.
func (n Node) Public() Node {
	n.PositionAbsolute = geometry.XYPosition{}
	n.Z = 0
	n.HandleBounds = nil
	n.IsParent = false
	return n
}

// IsDraggable resolves the capability flag against the store default.
func (n Node) IsDraggable(def bool) bool { return resolve(n.Draggable, def) }

// IsSelectable resolves the capability flag against the store default.
func (n Node) IsSelectable(def bool) bool { return resolve(n.Selectable, def) }

// IsConnectable resolves the capability flag against the store default.
func (n Node) IsConnectable(def bool) bool { return resolve(n.Connectable, def) }

func resolve(flag *bool, def bool) bool {
	if flag == nil {
		return def
	}
	return *flag
}

// baseZ is the layer of a node before parent inheritance.
func (n Node) baseZ() int {
	if n.ZIndex != nil {
		return *n.ZIndex
	}
	if n.Selected {
		return SelectedZ
	}
	return 0
}

// RectOfNodes returns the bounding rectangle of the given nodes' absolute
// boxes. An empty input yields the zero Rect.
func RectOfNodes(nodes []Node) geometry.Rect {
	if len(nodes) == 0 {
		return geometry.Rect{}
	}

	box := geometry.RectToBox(nodes[0].Rect())
	for _, n := range nodes[1:] {
		box = geometry.BoundsOfBoxes(box, geometry.RectToBox(n.Rect()))
	}
	return geometry.BoxToRect(box)
}
