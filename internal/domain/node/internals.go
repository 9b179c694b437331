package node

import (
	"flowcanvas/internal/domain/geometry"
)

// Internals is an immutable, ordered index of nodes keyed by id.
//
// Every mutation goes through NewInternals, which produces a fresh value, so a
// snapshot holding an *Internals can be shared with observers freely.
type Internals struct {
	order []string
	byID  map[string]Node
}

// EmptyInternals returns an index with no nodes.
func EmptyInternals() *Internals {
	return &Internals{byID: map[string]Node{}}
}

// NewInternals builds the index for nodes, deriving every internal field.
//
// Measured dimensions and handle bounds are carried over from prev when the
// incoming node does not supply them, so a caller replacing its collection
// does not force a re-measure. Duplicate ids keep the first occurrence.
func NewInternals(nodes []Node, prev *Internals) *Internals {
	next := &Internals{
		order: make([]string, 0, len(nodes)),
		byID:  make(map[string]Node, len(nodes)),
	}

	for _, n := range nodes {
		if _, dup := next.byID[n.ID]; dup {
			continue
		}
		if prev != nil {
			if old, ok := prev.byID[n.ID]; ok {
				if n.Width == 0 && n.Height == 0 {
					n.Width, n.Height = old.Width, old.Height
				}
				if n.HandleBounds == nil {
					n.HandleBounds = old.HandleBounds
				}
			}
		}
		n.IsParent = false
		next.order = append(next.order, n.ID)
		next.byID[n.ID] = n
	}

	next.dropCycles()
	next.derive()

	return next
}

// dropCycles clears any parent id that leads back to the node itself. Nodes
// are checked in insertion order, so the first node of a cycle becomes its
// root.
func (in *Internals) dropCycles() {
	for _, id := range in.order {
		n := in.byID[id]
		if n.ParentID == "" {
			continue
		}

		seen := map[string]bool{id: true}
		cur := n.ParentID
		for cur != "" {
			if seen[cur] {
				n.ParentID = ""
				in.byID[id] = n
				break
			}
			seen[cur] = true
			p, ok := in.byID[cur]
			if !ok {
				break
			}
			cur = p.ParentID
		}
	}
}

// derive recomputes absolute positions, layers and parent flags.
func (in *Internals) derive() {
	for _, id := range in.order {
		n := in.byID[id]
		abs := n.Position
		z := n.baseZ()

		for pid := n.ParentID; pid != ""; {
			p, ok := in.byID[pid]
			if !ok {
				break
			}
			abs = abs.Add(p.Position)
			if pz := p.baseZ(); pz > z {
				z = pz
			}
			pid = p.ParentID
		}

		n.PositionAbsolute = abs
		n.Z = z
		in.byID[id] = n
	}

	for _, id := range in.order {
		n := in.byID[id]
		if n.ParentID == "" {
			continue
		}
		if p, ok := in.byID[n.ParentID]; ok {
			p.IsParent = true
			in.byID[n.ParentID] = p
		}
	}
}

// Len returns the number of nodes.
func (in *Internals) Len() int {
	if in == nil {
		return 0
	}
	return len(in.order)
}

// Get returns the node with the given id.
func (in *Internals) Get(id string) (Node, bool) {
	if in == nil {
		return Node{}, false
	}
	n, ok := in.byID[id]
	return n, ok
}

// Has reports whether id is indexed.
func (in *Internals) Has(id string) bool {
	_, ok := in.Get(id)
	return ok
}

// Nodes returns a copy of the nodes in insertion order.
func (in *Internals) Nodes() []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, 0, len(in.order))
	for _, id := range in.order {
		out = append(out, in.byID[id])
	}
	return out
}

// IsParentSelected reports whether any ancestor of n is selected.
func (in *Internals) IsParentSelected(n Node) bool {
	seen := map[string]bool{n.ID: true}
	for pid := n.ParentID; pid != "" && !seen[pid]; {
		seen[pid] = true
		p, ok := in.Get(pid)
		if !ok {
			return false
		}
		if p.Selected {
			return true
		}
		pid = p.ParentID
	}
	return false
}

// ParentOffset returns the absolute position of n's parent, or the origin for
// root nodes and nodes whose parent is not indexed.
func (in *Internals) ParentOffset(n Node) geometry.XYPosition {
	if n.ParentID == "" {
		return geometry.XYPosition{}
	}
	if p, ok := in.Get(n.ParentID); ok {
		return p.PositionAbsolute
	}
	return geometry.XYPosition{}
}
