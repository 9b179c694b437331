package store

import (
	"flowcanvas/internal/domain/changes"
)

// UnselectParams narrows UnselectNodesAndEdges to specific ids. A nil slice
// means every item of that kind.
type UnselectParams struct {
	Nodes []string
	Edges []string
}

// AddSelectedNodes selects ids. With multi-selection active the selection is
// additive; otherwise exactly ids end up selected and every edge is
// deselected. Only items whose state flips produce a record.
func (s *Store) AddSelectedNodes(ids []string) {
	s.update("addSelectedNodes", func(tx *txn) {
		st := tx.next

		if st.MultiSelectionActive {
			var cs []changes.NodeChange
			flipped := make(map[string]bool, len(ids))
			for _, id := range ids {
				if n, ok := st.Nodes.Get(id); ok && !n.Selected && !flipped[id] {
					cs = append(cs, changes.NodeSelection(id, true))
					flipped[id] = true
				}
			}
			tx.nodes(cs)
			return
		}

		tx.nodes(changes.NodeSelectionChanges(st.NodeList(), ids))
		tx.edges(changes.EdgeUniformSelectionChanges(st.Edges, false))
	})
}

// AddSelectedEdges is AddSelectedNodes for edges.
func (s *Store) AddSelectedEdges(ids []string) {
	s.update("addSelectedEdges", func(tx *txn) {
		st := tx.next

		if st.MultiSelectionActive {
			selected := make(map[string]bool, len(st.Edges))
			for _, e := range st.Edges {
				selected[e.ID] = e.Selected
			}
			var cs []changes.EdgeChange
			for _, id := range ids {
				if was, ok := selected[id]; ok && !was {
					cs = append(cs, changes.EdgeSelection(id, true))
					selected[id] = true
				}
			}
			tx.edges(cs)
			return
		}

		tx.edges(changes.EdgeSelectionChanges(st.Edges, ids))
		tx.nodes(changes.NodeUniformSelectionChanges(st.NodeList(), false))
	})
}

// UnselectNodesAndEdges deselects every selected node and edge, or only the
// ids in params, and ends any active nodes selection.
func (s *Store) UnselectNodesAndEdges(params UnselectParams) {
	s.update("unselectNodesAndEdges", func(tx *txn) {
		st := tx.next

		var ncs []changes.NodeChange
		if params.Nodes == nil {
			ncs = changes.NodeUniformSelectionChanges(st.NodeList(), false)
		} else {
			for _, id := range params.Nodes {
				if n, ok := st.Nodes.Get(id); ok && n.Selected {
					ncs = append(ncs, changes.NodeSelection(id, false))
				}
			}
		}

		var ecs []changes.EdgeChange
		if params.Edges == nil {
			ecs = changes.EdgeUniformSelectionChanges(st.Edges, false)
		} else {
			want := make(map[string]bool, len(params.Edges))
			for _, id := range params.Edges {
				want[id] = true
			}
			for _, e := range st.Edges {
				if e.Selected && want[e.ID] {
					ecs = append(ecs, changes.EdgeSelection(e.ID, false))
				}
			}
		}

		tx.next.NodesSelectionActive = false
		tx.nodes(ncs)
		tx.edges(ecs)
	})
}

// ResetSelectedElements deselects every currently selected node and edge.
func (s *Store) ResetSelectedElements() {
	s.update("resetSelectedElements", func(tx *txn) {
		tx.nodes(changes.NodeUniformSelectionChanges(tx.next.NodeList(), false))
		tx.edges(changes.EdgeUniformSelectionChanges(tx.next.Edges, false))
	})
}

// SetMultiSelectionActive toggles additive selection.
func (s *Store) SetMultiSelectionActive(active bool) {
	s.update("setMultiSelectionActive", func(tx *txn) {
		tx.next.MultiSelectionActive = active
	})
}

// SetNodesSelectionActive toggles the grouped nodes selection.
func (s *Store) SetNodesSelectionActive(active bool) {
	s.update("setNodesSelectionActive", func(tx *txn) {
		tx.next.NodesSelectionActive = active
	})
}
