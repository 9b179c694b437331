package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/domain/changes"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/panzoom"
	"flowcanvas/internal/store"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func sampleGraph() ([]node.Node, []edge.Edge) {
	nodes := []node.Node{
		{ID: "group", Position: geometry.XYPosition{X: 10, Y: 10}, Width: 300, Height: 200, Data: map[string]any{"label": "Group"}},
		{ID: "a", ParentID: "group", Position: geometry.XYPosition{X: 20, Y: 30}, Extent: node.ParentExtent(), Width: 50, Height: 40},
		{ID: "b", Position: geometry.XYPosition{X: 400, Y: 0}, ZIndex: intPtr(3), Draggable: boolPtr(false)},
	}
	edges := []edge.Edge{
		{ID: "e1", Source: "a", Target: "b", Label: "flows", Animated: boolPtr(true)},
	}
	return nodes, edges
}

func uncontrolled(t *testing.T) *Instance {
	t.Helper()
	s := store.New(store.DefaultSettings(), nil)
	s.SetDefaultNodesAndEdges([]node.Node{}, []edge.Edge{})
	return NewInstance(s, nil, nil)
}

func controlled(t *testing.T) (*Instance, *[]changes.NodeChange, *[]changes.EdgeChange) {
	t.Helper()
	s := store.New(store.DefaultSettings(), nil)
	var ncs []changes.NodeChange
	var ecs []changes.EdgeChange
	s.SetOnNodesChange(func(cs []changes.NodeChange) { ncs = append(ncs, cs...) })
	s.SetOnEdgesChange(func(cs []changes.EdgeChange) { ecs = append(ecs, cs...) })
	return NewInstance(s, nil, nil), &ncs, &ecs
}

func TestToObject_RoundTrip(t *testing.T) {
	for _, mode := range []string{"controlled", "uncontrolled"} {
		t.Run(mode, func(t *testing.T) {
			s := store.New(store.DefaultSettings(), nil)
			if mode == "uncontrolled" {
				s.SetDefaultNodesAndEdges([]node.Node{}, []edge.Edge{})
			}
			inst := NewInstance(s, nil, nil)
			nodes, edges := sampleGraph()

			s.SetNodes(nodes)
			s.SetEdges(edges)
			obj := inst.ToObject()

			assert.Equal(t, nodes, obj.Nodes)
			assert.Equal(t, edges, obj.Edges)
			assert.Equal(t, geometry.Identity, obj.Viewport)

			// The store itself does carry the internal fields.
			a, ok := inst.GetNode("a")
			require.True(t, ok)
			assert.Equal(t, geometry.XYPosition{X: 30, Y: 40}, a.PositionAbsolute)
		})
	}
}

func TestReads(t *testing.T) {
	inst := uncontrolled(t)
	nodes, edges := sampleGraph()
	inst.SetNodes(nodes)
	inst.SetEdges(edges)

	assert.Len(t, inst.GetNodes(), 3)
	assert.Len(t, inst.GetEdges(), 1)

	e, ok := inst.GetEdge("e1")
	require.True(t, ok)
	assert.Equal(t, "flows", e.Label)

	_, ok = inst.GetEdge("nope")
	assert.False(t, ok)
	_, ok = inst.GetNode("nope")
	assert.False(t, ok)

	// Returned slices are copies.
	got := inst.GetEdges()
	got[0].Label = "changed"
	e, _ = inst.GetEdge("e1")
	assert.Equal(t, "flows", e.Label)
}

func TestSetNodes_Controlled(t *testing.T) {
	inst, ncs, _ := controlled(t)
	inst.Store().SetNodes([]node.Node{{ID: "a"}, {ID: "b"}})

	inst.SetNodes([]node.Node{{ID: "a", Class: "changed"}, {ID: "c"}})

	assert.Equal(t, []changes.NodeChange{
		changes.NodeReset(node.Node{ID: "a", Class: "changed"}),
		changes.NodeAdd(node.Node{ID: "c"}),
		changes.NodeRemove("b"),
	}, *ncs)

	// The store copy is the owner's business.
	a, _ := inst.GetNode("a")
	assert.Empty(t, a.Class)
	assert.Len(t, inst.GetNodes(), 2)
}

func TestSetEdges_Controlled(t *testing.T) {
	inst, _, ecs := controlled(t)
	inst.Store().SetEdges([]edge.Edge{{ID: "e1", Source: "a", Target: "b"}})

	inst.SetEdges([]edge.Edge{{ID: "e2", Source: "b", Target: "a"}})

	assert.Equal(t, []changes.EdgeChange{
		changes.EdgeAdd(edge.Edge{ID: "e2", Source: "b", Target: "a"}),
		changes.EdgeRemove("e1"),
	}, *ecs)
}

func TestAddNodesAndEdges(t *testing.T) {
	t.Run("uncontrolled appends", func(t *testing.T) {
		inst := uncontrolled(t)
		inst.AddNodes(node.Node{ID: "a"})
		inst.AddNodes(node.Node{ID: "b"}, node.Node{ID: "c"})
		inst.AddEdges(edge.Edge{ID: "e1", Source: "a", Target: "b"})
		inst.AddNodes()

		ids := []string{}
		for _, n := range inst.GetNodes() {
			ids = append(ids, n.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
		assert.Len(t, inst.GetEdges(), 1)
	})

	t.Run("controlled proposes add records", func(t *testing.T) {
		inst, ncs, ecs := controlled(t)
		inst.AddNodes(node.Node{ID: "a"})
		inst.AddEdges(edge.Edge{ID: "e1", Source: "a", Target: "b"})

		assert.Equal(t, []changes.NodeChange{changes.NodeAdd(node.Node{ID: "a"})}, *ncs)
		assert.Equal(t, []changes.EdgeChange{changes.EdgeAdd(edge.Edge{ID: "e1", Source: "a", Target: "b"})}, *ecs)
		assert.Empty(t, inst.GetNodes())
	})
}

func TestDeleteElements_NoCascade(t *testing.T) {
	inst := uncontrolled(t)
	nodes, edges := sampleGraph()
	inst.SetNodes(nodes)
	inst.SetEdges(edges)

	inst.DeleteElements([]string{"group", "unknown"}, nil)

	_, ok := inst.GetNode("group")
	assert.False(t, ok)
	_, ok = inst.GetNode("a")
	assert.True(t, ok, "children stay")
	assert.Len(t, inst.GetEdges(), 1, "edges stay")

	inst.DeleteElements(nil, []string{"e1"})
	assert.Empty(t, inst.GetEdges())
}

func TestConnect(t *testing.T) {
	inst := uncontrolled(t)
	inst.Store().SetDefaultEdgeOptions(&edge.DefaultOptions{Animated: boolPtr(true)})
	c := edge.Connection{Source: "a", SourceHandle: "out", Target: "b", TargetHandle: "in"}

	e, ok := inst.Connect(c)
	require.True(t, ok)
	assert.Equal(t, "flowcanvas__edge-aout-bin", e.ID)
	assert.Equal(t, boolPtr(true), e.Animated)

	_, ok = inst.Connect(c)
	assert.False(t, ok)
	assert.Len(t, inst.GetEdges(), 1)
}

func TestViewportHelpersPromoted(t *testing.T) {
	inst := uncontrolled(t)
	assert.False(t, inst.ViewportInitialized())

	s := inst.Store()
	s.SetDimensions(800, 600)
	s.AttachPanZoom(panzoom.NewBehavior(geometry.Identity, 0.5, 2, s.SetTransform, nil))
	require.True(t, inst.ViewportInitialized())

	inst.ZoomTo(1.5, 0)
	assert.Equal(t, 1.5, inst.GetZoom())
	assert.Equal(t, 1.5, inst.ToObject().Viewport.Zoom)
}
