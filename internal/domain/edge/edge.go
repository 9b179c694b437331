// Package edge implements the Edge entity of the flow canvas.
//
// PURPOSE: Represents a directed link between two nodes, optionally pinned to
// named handles on either end.
//
// DOMAIN ROLE: Edge is a plain value. Referential integrity (source and target
// naming existing nodes) belongs to whoever owns the collection; nothing here
// or in the store prunes dangling edges.
package edge

import (
	"strings"
)

// MarkerType names a built in edge end marker.
type MarkerType string

const (
	MarkerArrow       MarkerType = "arrow"
	MarkerArrowClosed MarkerType = "arrowclosed"
)

// Marker decorates one end of an edge.
type Marker struct {
	Type        MarkerType `json:"type" yaml:"type"`
	Color       string     `json:"color,omitempty" yaml:"color,omitempty"`
	Width       float64    `json:"width,omitempty" yaml:"width,omitempty"`
	Height      float64    `json:"height,omitempty" yaml:"height,omitempty"`
	StrokeWidth float64    `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`
}

// Edge connects Source to Target. Pointer fields are optional: nil means the
// caller did not set them and defaults may fill them in.
type Edge struct {
	ID           string `json:"id" yaml:"id" validate:"required"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Class        string `json:"class,omitempty" yaml:"class,omitempty"`
	Source       string `json:"source" yaml:"source" validate:"required"`
	Target       string `json:"target" yaml:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
	Selected     bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
	Data         any    `json:"data,omitempty" yaml:"data,omitempty"`

	Hidden      *bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Animated    *bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
	Selectable  *bool   `json:"selectable,omitempty" yaml:"selectable,omitempty"`
	Updatable   *bool   `json:"updatable,omitempty" yaml:"updatable,omitempty"`
	ZIndex      *int    `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`
	MarkerStart *Marker `json:"markerStart,omitempty" yaml:"markerStart,omitempty"`
	MarkerEnd   *Marker `json:"markerEnd,omitempty" yaml:"markerEnd,omitempty"`
}

// IsHidden reports whether the edge is hidden.
func (e Edge) IsHidden() bool {
	return e.Hidden != nil && *e.Hidden
}

// DefaultOptions are merged into every edge handed to the store.
type DefaultOptions struct {
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Class       string  `json:"class,omitempty" yaml:"class,omitempty"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty"`
	Data        any     `json:"data,omitempty" yaml:"data,omitempty"`
	Hidden      *bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Animated    *bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
	Selectable  *bool   `json:"selectable,omitempty" yaml:"selectable,omitempty"`
	Updatable   *bool   `json:"updatable,omitempty" yaml:"updatable,omitempty"`
	ZIndex      *int    `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`
	MarkerStart *Marker `json:"markerStart,omitempty" yaml:"markerStart,omitempty"`
	MarkerEnd   *Marker `json:"markerEnd,omitempty" yaml:"markerEnd,omitempty"`
}

// ApplyDefaults fills every field of e the caller left unset from opts.
// Fields the caller supplied are never overwritten.
func ApplyDefaults(e Edge, opts *DefaultOptions) Edge {
	if opts == nil {
		return e
	}
	if e.Type == "" {
		e.Type = opts.Type
	}
	if e.Class == "" {
		e.Class = opts.Class
	}
	if e.Label == "" {
		e.Label = opts.Label
	}
	if e.Data == nil {
		e.Data = opts.Data
	}
	if e.Hidden == nil {
		e.Hidden = opts.Hidden
	}
	if e.Animated == nil {
		e.Animated = opts.Animated
	}
	if e.Selectable == nil {
		e.Selectable = opts.Selectable
	}
	if e.Updatable == nil {
		e.Updatable = opts.Updatable
	}
	if e.ZIndex == nil {
		e.ZIndex = opts.ZIndex
	}
	if e.MarkerStart == nil {
		e.MarkerStart = opts.MarkerStart
	}
	if e.MarkerEnd == nil {
		e.MarkerEnd = opts.MarkerEnd
	}
	return e
}

// Connection is a candidate edge produced by a connection gesture.
type Connection struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// IsSelfLoop reports whether both ends sit on the same node.
func (c Connection) IsSelfLoop() bool {
	return c.Source == c.Target
}

// IDFor derives the deterministic id used for an edge built from c.
func IDFor(c Connection) string {
	var b strings.Builder
	b.WriteString("flowcanvas__edge-")
	b.WriteString(c.Source)
	b.WriteString(c.SourceHandle)
	b.WriteString("-")
	b.WriteString(c.Target)
	b.WriteString(c.TargetHandle)
	return b.String()
}

// FromConnection builds an edge for c with the derived id.
func FromConnection(c Connection) Edge {
	return Edge{
		ID:           IDFor(c),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
	}
}

// ConnectionExists reports whether edges already link the same endpoints and
// handles as c.
func ConnectionExists(c Connection, edges []Edge) bool {
	for _, e := range edges {
		if e.Source == c.Source && e.Target == c.Target &&
			e.SourceHandle == c.SourceHandle && e.TargetHandle == c.TargetHandle {
			return true
		}
	}
	return false
}
