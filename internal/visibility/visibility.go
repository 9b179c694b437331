// Package visibility derives the node and edge sets a renderer should draw
// from a store snapshot, and groups edges into z layers.
package visibility

import (
	"math"
	"sort"

	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/store"
)

// EdgeLayer is one z level of edges, in input order.
type EdgeLayer struct {
	Level      int         `json:"level"`
	IsMaxLevel bool        `json:"isMaxLevel"`
	Edges      []edge.Edge `json:"edges"`
}

// VisibleNodes returns the nodes to render. Without culling that is every
// node. With culling it is the non-hidden nodes that intersect the viewport,
// plus nodes that are not measured yet or are being dragged.
func VisibleNodes(st store.State, onlyRenderVisible bool) []node.Node {
	if !onlyRenderVisible {
		return st.NodeList()
	}
	pane := geometry.RendererRect(st.Width, st.Height, st.Transform)
	return NodesInside(st.NodeList(), pane, true, false)
}

// NodesInside returns the nodes whose box lies in rect, given in graph space.
// With partially set, any overlap counts. Unmeasured and dragging nodes are
// always included.
func NodesInside(nodes []node.Node, rect geometry.Rect, partially, excludeNonSelectable bool) []node.Node {
	var out []node.Node
	for _, n := range nodes {
		if n.Hidden {
			continue
		}
		if excludeNonSelectable && !n.IsSelectable(true) {
			continue
		}

		overlap := geometry.OverlapArea(rect, n.Rect())
		area := n.Width * n.Height
		visible := !n.Dimensions().Known() ||
			(partially && overlap > 0) ||
			overlap >= area
		if visible || n.Dragging {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns the edges to render. With culling an edge needs both
// endpoints measured and its bounding box must meet the viewport.
func VisibleEdges(st store.State, onlyRenderVisible bool) []edge.Edge {
	if !onlyRenderVisible {
		return st.Edges
	}

	view := geometry.RendererRect(st.Width, st.Height, st.Transform)
	var out []edge.Edge
	for _, e := range st.Edges {
		if e.IsHidden() {
			continue
		}
		src, ok := st.Nodes.Get(e.Source)
		if !ok || !src.Dimensions().Known() {
			continue
		}
		tgt, ok := st.Nodes.Get(e.Target)
		if !ok || !tgt.Dimensions().Known() {
			continue
		}
		if edgeVisible(src.Rect(), tgt.Rect(), view) {
			out = append(out, e)
		}
	}
	return out
}

func edgeVisible(src, tgt, view geometry.Rect) bool {
	box := geometry.Box{
		X:  math.Min(src.X, tgt.X),
		Y:  math.Min(src.Y, tgt.Y),
		X2: math.Max(src.X+src.Width, tgt.X+tgt.Width),
		Y2: math.Max(src.Y+src.Height, tgt.Y+tgt.Height),
	}
	if box.X == box.X2 {
		box.X2++
	}
	if box.Y == box.Y2 {
		box.Y2++
	}
	return geometry.OverlapArea(geometry.BoxToRect(box), view) > 0
}

// GroupEdgesByZLevel partitions edges by their explicit z index, or the
// higher layer of their two endpoints. Layers are ordered bottom first. An
// empty input yields a single empty top layer at level 0.
func GroupEdgesByZLevel(edges []edge.Edge, nodes *node.Internals) []EdgeLayer {
	if len(edges) == 0 {
		return []EdgeLayer{{Level: 0, IsMaxLevel: true, Edges: []edge.Edge{}}}
	}

	byLevel := map[int][]edge.Edge{}
	maxLevel := math.MinInt
	for _, e := range edges {
		z := edgeLevel(e, nodes)
		byLevel[z] = append(byLevel[z], e)
		if z > maxLevel {
			maxLevel = z
		}
	}

	layers := make([]EdgeLayer, 0, len(byLevel))
	for level, group := range byLevel {
		layers = append(layers, EdgeLayer{Level: level, IsMaxLevel: level == maxLevel, Edges: group})
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].Level < layers[j].Level })
	return layers
}

func edgeLevel(e edge.Edge, nodes *node.Internals) int {
	if e.ZIndex != nil {
		return *e.ZIndex
	}
	// Missing endpoints and negative layers count as 0.
	z := 0
	for _, id := range [2]string{e.Source, e.Target} {
		if n, ok := nodes.Get(id); ok && n.Z > z {
			z = n.Z
		}
	}
	return z
}
