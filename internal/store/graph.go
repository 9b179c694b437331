package store

import (
	"flowcanvas/internal/domain/changes"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
)

// NodeDimensionUpdate asks the store to re-measure one node.
type NodeDimensionUpdate struct {
	ID          string
	Element     node.Measurement
	ForceUpdate bool
}

// NodeDiffUpdate is one drag step.
type NodeDiffUpdate struct {
	ID       string
	Diff     geometry.XYPosition
	Dragging bool
}

// SetNodes replaces the node collection. Measured dimensions and handle
// bounds survive for ids that are still present.
func (s *Store) SetNodes(nodes []node.Node) {
	s.update("setNodes", func(tx *txn) {
		tx.next.setNodes(nodes)
		tx.tryInitialFit()
	})
}

// SetEdges replaces the edge collection, filling unset fields from the
// default edge options.
func (s *Store) SetEdges(edges []edge.Edge) {
	s.update("setEdges", func(tx *txn) {
		tx.next.setEdges(edges)
	})
}

// SetDefaultNodesAndEdges seeds the store and hands it ownership of every
// collection given. A nil slice leaves that collection controlled and empty.
func (s *Store) SetDefaultNodesAndEdges(nodes []node.Node, edges []edge.Edge) {
	s.update("setDefaultNodesAndEdges", func(tx *txn) {
		tx.next.Nodes = node.EmptyInternals()
		tx.next.handleBounds = map[string]*node.HandleBounds{}
		tx.next.NodeMode = ModeControlled
		if nodes != nil {
			tx.next.NodeMode = ModeUncontrolled
			tx.next.setNodes(nodes)
		}

		tx.next.Edges = []edge.Edge{}
		tx.next.EdgeMode = ModeControlled
		if edges != nil {
			tx.next.EdgeMode = ModeUncontrolled
			tx.next.setEdges(edges)
		}
		tx.tryInitialFit()
	})
}

// SetModes selects the ownership strategy per collection.
func (s *Store) SetModes(nodeMode, edgeMode Mode) {
	s.update("setModes", func(tx *txn) {
		tx.next.NodeMode = nodeMode
		tx.next.EdgeMode = edgeMode
	})
}

// UpdateNodeDimensions re-measures nodes and returns one dimensions record
// per node whose measured size is non-zero and either differs from the
// stored size or is forced. Unknown ids and zero measurements are ignored.
//
// Handle bounds are refreshed for every recorded node in both modes; the
// node map itself only changes in uncontrolled mode.
func (s *Store) UpdateNodeDimensions(updates []NodeDimensionUpdate) []changes.NodeChange {
	tx := s.update("updateNodeDimensions", func(tx *txn) {
		var cs []changes.NodeChange
		var cache map[string]*node.HandleBounds
		// index of the record already emitted for a node in this batch
		recorded := make(map[string]int, len(updates))

		for _, u := range updates {
			n, ok := tx.next.Nodes.Get(u.ID)
			if !ok || u.Element == nil {
				continue
			}
			dims := u.Element.Dimensions()
			if !dims.Known() {
				continue
			}
			if i, seen := recorded[n.ID]; seen {
				if *cs[i].Dimensions != dims {
					cs[i] = changes.NodeDimensions(n.ID, dims)
					cache[n.ID] = node.MeasureHandleBounds(u.Element, tx.next.Transform.Zoom)
				}
				continue
			}
			if dims == n.Dimensions() && !u.ForceUpdate {
				continue
			}

			if cache == nil {
				cache = make(map[string]*node.HandleBounds, len(tx.next.handleBounds)+1)
				for id, hb := range tx.next.handleBounds {
					cache[id] = hb
				}
			}
			cache[n.ID] = node.MeasureHandleBounds(u.Element, tx.next.Transform.Zoom)
			recorded[n.ID] = len(cs)
			cs = append(cs, changes.NodeDimensions(n.ID, dims))
		}

		if cache != nil {
			tx.next.handleBounds = cache
			if tx.next.NodeMode == ModeControlled {
				// Only internal fields change here.
				tx.next.setNodes(tx.next.NodeList())
			}
		}
		tx.nodes(cs)
		tx.tryInitialFit()
	})
	return tx.nodeChanges
}

// UpdateNodePosition applies one drag step. It moves every selected node
// whose ancestors are not selected, plus the node named by u.ID when it is
// not selected itself. Each new position is clamped so the node's whole box
// stays inside its effective extent.
func (s *Store) UpdateNodePosition(u NodeDiffUpdate) []changes.NodeChange {
	tx := s.update("updateNodePosition", func(tx *txn) {
		st := tx.next
		var cs []changes.NodeChange

		for _, n := range st.NodeList() {
			switch {
			case n.Selected:
				if st.Nodes.IsParentSelected(n) {
					continue
				}
			case n.ID != u.ID:
				continue
			}
			cs = append(cs, positionChange(st, n, u.Diff, u.Dragging))
		}

		tx.nodes(cs)
	})
	return tx.nodeChanges
}

// SetNodeExtent replaces the store wide node extent and immediately moves
// every node that now lies outside its effective extent back inside.
func (s *Store) SetNodeExtent(e geometry.CoordinateExtent) {
	s.update("setNodeExtent", func(tx *txn) {
		tx.next.NodeExtent = e
		st := tx.next

		var cs []changes.NodeChange
		for _, n := range st.NodeList() {
			c := positionChange(st, n, geometry.XYPosition{}, n.Dragging)
			if *c.Position != n.Position {
				cs = append(cs, c)
			}
		}
		if len(cs) > 0 && st.NodeMode == ModeControlled {
			// The extent belongs to the store, so the snapshot is reclamped
			// in both modes; the owner still receives the records.
			tx.next.setNodes(changes.ApplyNodeChanges(cs, st.NodeList()))
		}
		tx.nodes(cs)
	})
}

// RemoveElements emits remove records for the given ids. Removing a node does
// not touch its edges or children; that cleanup belongs to the owner.
func (s *Store) RemoveElements(nodeIDs, edgeIDs []string) {
	s.update("removeElements", func(tx *txn) {
		var ncs []changes.NodeChange
		for _, id := range nodeIDs {
			if tx.next.Nodes.Has(id) {
				ncs = append(ncs, changes.NodeRemove(id))
			}
		}

		known := make(map[string]bool, len(tx.next.Edges))
		for _, e := range tx.next.Edges {
			known[e.ID] = true
		}
		var ecs []changes.EdgeChange
		for _, id := range edgeIDs {
			if known[id] {
				ecs = append(ecs, changes.EdgeRemove(id))
			}
		}

		tx.nodes(ncs)
		tx.edges(ecs)
	})
}

// positionChange builds the record for moving n by diff, clamped to its
// effective extent.
func positionChange(st State, n node.Node, diff geometry.XYPosition, dragging bool) changes.NodeChange {
	abs := n.PositionAbsolute.Add(diff)
	abs = geometry.ClampPosition(abs, effectiveExtent(st, n).ForSize(n.Dimensions()))
	local := abs.Sub(st.Nodes.ParentOffset(n))
	return changes.NodePosition(n.ID, local, abs, dragging)
}

// effectiveExtent resolves the graph-space box n's origin box must stay in.
// A parent extent only applies once both the node and its parent have been
// measured; until then the store wide extent is used.
func effectiveExtent(st State, n node.Node) geometry.CoordinateExtent {
	if n.Extent == nil {
		return st.NodeExtent
	}
	if !n.Extent.Parent {
		return n.Extent.Coordinates
	}

	parent, ok := st.Nodes.Get(n.ParentID)
	if !ok || !parent.Dimensions().Known() || !n.Dimensions().Known() {
		return st.NodeExtent
	}
	return geometry.CoordinateExtent{
		parent.PositionAbsolute,
		{X: parent.PositionAbsolute.X + parent.Width, Y: parent.PositionAbsolute.Y + parent.Height},
	}
}

// CommitNodeChanges routes externally built node records through the node
// mode strategy: merged in uncontrolled mode, forwarded in controlled mode.
func (s *Store) CommitNodeChanges(cs []changes.NodeChange) {
	s.update("commitNodeChanges", func(tx *txn) {
		tx.nodes(cs)
		tx.tryInitialFit()
	})
}

// CommitEdgeChanges is CommitNodeChanges for edges.
func (s *Store) CommitEdgeChanges(cs []changes.EdgeChange) {
	s.update("commitEdgeChanges", func(tx *txn) {
		tx.edges(cs)
	})
}
