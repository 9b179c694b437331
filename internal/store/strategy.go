package store

import (
	"flowcanvas/internal/domain/changes"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/node"
)

// strategy decides what a batch of change records does to the next
// snapshot. Either way the records are queued on the transaction so the
// registered callback sees them.
type strategy interface {
	commitNodes(tx *txn, cs []changes.NodeChange)
	commitEdges(tx *txn, cs []changes.EdgeChange)
}

// selfApply merges records into the store's own copy.
type selfApply struct{}

func (selfApply) commitNodes(tx *txn, cs []changes.NodeChange) {
	if len(cs) == 0 {
		return
	}
	tx.next.setNodes(changes.ApplyNodeChanges(cs, tx.next.NodeList()))
	tx.nodeChanges = append(tx.nodeChanges, cs...)
}

func (selfApply) commitEdges(tx *txn, cs []changes.EdgeChange) {
	if len(cs) == 0 {
		return
	}
	tx.next.Edges = changes.ApplyEdgeChanges(cs, tx.next.Edges)
	tx.edgeChanges = append(tx.edgeChanges, cs...)
}

// forward leaves the snapshot alone and only hands records to the owner.
type forward struct{}

func (forward) commitNodes(tx *txn, cs []changes.NodeChange) {
	tx.nodeChanges = append(tx.nodeChanges, cs...)
}

func (forward) commitEdges(tx *txn, cs []changes.EdgeChange) {
	tx.edgeChanges = append(tx.edgeChanges, cs...)
}

func strategyFor(m Mode) strategy {
	if m == ModeUncontrolled {
		return selfApply{}
	}
	return forward{}
}

func (tx *txn) nodes(cs []changes.NodeChange) {
	strategyFor(tx.next.NodeMode).commitNodes(tx, cs)
}

func (tx *txn) edges(cs []changes.EdgeChange) {
	strategyFor(tx.next.EdgeMode).commitEdges(tx, cs)
}

// setNodes rebuilds the node index from nodes, attaching the latest handle
// measurements and dropping cache entries for nodes that are gone.
func (st *State) setNodes(nodes []node.Node) {
	nodes = append([]node.Node(nil), nodes...)
	cache := make(map[string]*node.HandleBounds, len(st.handleBounds))
	for i := range nodes {
		if hb, ok := st.handleBounds[nodes[i].ID]; ok {
			nodes[i].HandleBounds = hb
			cache[nodes[i].ID] = hb
		}
	}
	st.handleBounds = cache
	st.Nodes = node.NewInternals(nodes, st.Nodes)
}

// setEdges replaces the edge list, merging in the default options.
func (st *State) setEdges(edges []edge.Edge) {
	next := make([]edge.Edge, len(edges))
	for i, e := range edges {
		next[i] = edge.ApplyDefaults(e, st.DefaultEdgeOptions)
	}
	st.Edges = next
}
