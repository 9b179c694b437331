// Package flow contains the instance API an embedding application uses to
// read and drive one canvas.
//
// Key Concepts:
//   - Mode aware writes: in uncontrolled mode the instance writes straight
//     into the store; in controlled mode it only proposes change records to
//     the registered owner callback.
//   - Camera helpers: every viewport.Helper method is promoted onto Instance.
//   - Export: ToObject returns the public graph plus the camera, free of the
//     fields the store maintains.
//
// The instance holds no state of its own; every read goes to a fresh
// snapshot.
package flow

import (
	"go.uber.org/zap"

	"flowcanvas/internal/domain/changes"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/store"
	"flowcanvas/internal/viewport"
)

// Object is the exported form of a canvas.
type Object struct {
	Nodes    []node.Node       `json:"nodes" yaml:"nodes"`
	Edges    []edge.Edge       `json:"edges" yaml:"edges"`
	Viewport geometry.Viewport `json:"viewport" yaml:"viewport"`
}

// Instance is the application facing handle of one store.
type Instance struct {
	*viewport.Helper

	store  *store.Store
	logger *zap.Logger
}

// NewInstance binds an instance to s.
func NewInstance(s *store.Store, helper *viewport.Helper, logger *zap.Logger) *Instance {
	if logger == nil {
		logger = zap.NewNop()
	}
	if helper == nil {
		helper = viewport.NewHelper(s, logger)
	}
	return &Instance{Helper: helper, store: s, logger: logger}
}

// Store returns the underlying store.
func (i *Instance) Store() *store.Store { return i.store }

// ViewportInitialized reports whether a pan/zoom capability is attached.
func (i *Instance) ViewportInitialized() bool {
	return i.Initialized()
}

// ============================================================================
// READS
// ============================================================================

// GetNodes returns a copy of every node in insertion order.
func (i *Instance) GetNodes() []node.Node {
	return i.store.Snapshot().NodeList()
}

// GetNode returns the node with the given id.
func (i *Instance) GetNode(id string) (node.Node, bool) {
	return i.store.Snapshot().Nodes.Get(id)
}

// GetEdges returns a copy of every edge.
func (i *Instance) GetEdges() []edge.Edge {
	return append([]edge.Edge{}, i.store.Snapshot().Edges...)
}

// GetEdge returns the edge with the given id.
func (i *Instance) GetEdge(id string) (edge.Edge, bool) {
	for _, e := range i.store.Snapshot().Edges {
		if e.ID == id {
			return e, true
		}
	}
	return edge.Edge{}, false
}

// ToObject exports the graph and the camera. Store maintained node fields
// are stripped, so the result can be fed back into SetNodes unchanged.
func (i *Instance) ToObject() Object {
	st := i.store.Snapshot()
	nodes := st.NodeList()
	for k := range nodes {
		nodes[k] = nodes[k].Public()
	}
	return Object{
		Nodes:    nodes,
		Edges:    append([]edge.Edge{}, st.Edges...),
		Viewport: st.Transform,
	}
}

// ============================================================================
// WRITES
// ============================================================================

// SetNodes replaces the node collection. In controlled mode the owner gets a
// reset record per existing id, an add record per new id and a remove record
// per id that is no longer present.
func (i *Instance) SetNodes(nodes []node.Node) {
	st := i.store.Snapshot()
	if st.NodeMode == store.ModeUncontrolled {
		i.store.SetNodes(nodes)
		return
	}

	keep := make(map[string]bool, len(nodes))
	cs := make([]changes.NodeChange, 0, len(nodes))
	for _, n := range nodes {
		keep[n.ID] = true
		if st.Nodes.Has(n.ID) {
			cs = append(cs, changes.NodeReset(n))
		} else {
			cs = append(cs, changes.NodeAdd(n))
		}
	}
	for _, n := range st.NodeList() {
		if !keep[n.ID] {
			cs = append(cs, changes.NodeRemove(n.ID))
		}
	}
	i.store.CommitNodeChanges(cs)
}

// SetEdges replaces the edge collection, proposing records in controlled
// mode the same way SetNodes does.
func (i *Instance) SetEdges(edges []edge.Edge) {
	st := i.store.Snapshot()
	if st.EdgeMode == store.ModeUncontrolled {
		i.store.SetEdges(edges)
		return
	}

	known := make(map[string]bool, len(st.Edges))
	for _, e := range st.Edges {
		known[e.ID] = true
	}
	keep := make(map[string]bool, len(edges))
	cs := make([]changes.EdgeChange, 0, len(edges))
	for _, e := range edges {
		keep[e.ID] = true
		if known[e.ID] {
			cs = append(cs, changes.EdgeReset(e))
		} else {
			cs = append(cs, changes.EdgeAdd(e))
		}
	}
	for _, e := range st.Edges {
		if !keep[e.ID] {
			cs = append(cs, changes.EdgeRemove(e.ID))
		}
	}
	i.store.CommitEdgeChanges(cs)
}

// AddNodes appends nodes. In controlled mode the owner gets one add record
// per node.
func (i *Instance) AddNodes(nodes ...node.Node) {
	if len(nodes) == 0 {
		return
	}
	st := i.store.Snapshot()
	if st.NodeMode == store.ModeUncontrolled {
		i.store.SetNodes(append(st.NodeList(), nodes...))
		return
	}

	cs := make([]changes.NodeChange, 0, len(nodes))
	for _, n := range nodes {
		cs = append(cs, changes.NodeAdd(n))
	}
	i.store.CommitNodeChanges(cs)
}

// AddEdges appends edges. In controlled mode the owner gets one add record
// per edge.
func (i *Instance) AddEdges(edges ...edge.Edge) {
	if len(edges) == 0 {
		return
	}
	st := i.store.Snapshot()
	if st.EdgeMode == store.ModeUncontrolled {
		i.store.SetEdges(append(append([]edge.Edge{}, st.Edges...), edges...))
		return
	}

	cs := make([]changes.EdgeChange, 0, len(edges))
	for _, e := range edges {
		cs = append(cs, changes.EdgeAdd(edge.ApplyDefaults(e, st.DefaultEdgeOptions)))
	}
	i.store.CommitEdgeChanges(cs)
}

// DeleteElements removes the given nodes and edges. Edges attached to a
// removed node and its children are left alone.
func (i *Instance) DeleteElements(nodeIDs, edgeIDs []string) {
	i.store.RemoveElements(nodeIDs, edgeIDs)
}

// Connect turns a finished connection gesture into an edge. It reports false
// when an edge between the same handles already exists.
func (i *Instance) Connect(c edge.Connection) (edge.Edge, bool) {
	st := i.store.Snapshot()
	if edge.ConnectionExists(c, st.Edges) {
		i.logger.Debug("Connection already exists",
			zap.String("source", c.Source),
			zap.String("target", c.Target),
		)
		return edge.Edge{}, false
	}

	e := edge.ApplyDefaults(edge.FromConnection(c), st.DefaultEdgeOptions)
	i.AddEdges(e)
	return e, true
}
