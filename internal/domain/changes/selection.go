package changes

import (
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/node"
)

// flips returns, in collection order, the ids whose selection state differs
// from want and the state they flip to.
func flips[T any](items []T, key func(T) (string, bool), want func(id string) bool) ([]string, []bool) {
	var ids []string
	var states []bool
	for _, item := range items {
		id, selected := key(item)
		target := want(id)
		if selected != target {
			ids = append(ids, id)
			states = append(states, target)
		}
	}
	return ids, states
}

func idSet(ids []string) func(string) bool {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}

func uniform(v bool) func(string) bool {
	return func(string) bool { return v }
}

func nodeKey(n node.Node) (string, bool) { return n.ID, n.Selected }
func edgeKey(e edge.Edge) (string, bool) { return e.ID, e.Selected }

// NodeSelectionChanges returns the minimal records that make exactly the
// nodes in ids selected. Items already in the wanted state produce nothing,
// so applying the result and diffing again yields an empty list.
func NodeSelectionChanges(nodes []node.Node, ids []string) []NodeChange {
	return nodeRecords(flips(nodes, nodeKey, idSet(ids)))
}

// NodeUniformSelectionChanges returns the records that set every node's
// selection to selected.
func NodeUniformSelectionChanges(nodes []node.Node, selected bool) []NodeChange {
	return nodeRecords(flips(nodes, nodeKey, uniform(selected)))
}

// EdgeSelectionChanges is NodeSelectionChanges for edges.
func EdgeSelectionChanges(edges []edge.Edge, ids []string) []EdgeChange {
	return edgeRecords(flips(edges, edgeKey, idSet(ids)))
}

// EdgeUniformSelectionChanges is NodeUniformSelectionChanges for edges.
func EdgeUniformSelectionChanges(edges []edge.Edge, selected bool) []EdgeChange {
	return edgeRecords(flips(edges, edgeKey, uniform(selected)))
}

func nodeRecords(ids []string, states []bool) []NodeChange {
	out := make([]NodeChange, 0, len(ids))
	for i, id := range ids {
		out = append(out, NodeSelection(id, states[i]))
	}
	return out
}

func edgeRecords(ids []string, states []bool) []EdgeChange {
	out := make([]EdgeChange, 0, len(ids))
	for i, id := range ids {
		out = append(out, EdgeSelection(id, states[i]))
	}
	return out
}
