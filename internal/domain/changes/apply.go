package changes

import (
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/node"
)

// collection is an ordered slice with an id index and tombstones, so records
// can be applied one at a time in the order given.
type collection[T any] struct {
	items   []T
	removed []bool
	index   map[string]int
}

func newCollection[T any](items []T, id func(T) string) *collection[T] {
	c := &collection[T]{
		items:   make([]T, len(items)),
		removed: make([]bool, len(items)),
		index:   make(map[string]int, len(items)),
	}
	copy(c.items, items)
	for i, item := range c.items {
		if _, dup := c.index[id(item)]; !dup {
			c.index[id(item)] = i
		}
	}
	return c
}

func (c *collection[T]) lookup(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

func (c *collection[T]) add(id string, item T) {
	if _, exists := c.index[id]; exists {
		return
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, item)
	c.removed = append(c.removed, false)
}

func (c *collection[T]) replace(oldID, newID string, item T) {
	i, ok := c.index[oldID]
	if !ok {
		return
	}
	if newID != oldID {
		if _, taken := c.index[newID]; taken {
			return
		}
		delete(c.index, oldID)
		c.index[newID] = i
	}
	c.items[i] = item
}

func (c *collection[T]) remove(id string) {
	if i, ok := c.index[id]; ok {
		c.removed[i] = true
		delete(c.index, id)
	}
}

func (c *collection[T]) result() []T {
	out := make([]T, 0, len(c.items))
	for i, item := range c.items {
		if !c.removed[i] {
			out = append(out, item)
		}
	}
	return out
}

// ApplyNodeChanges returns nodes with every record applied in order.
// Records naming an unknown id are dropped, an add for an id that already
// exists is dropped, and a reset replaces exactly one entry in place.
func ApplyNodeChanges(cs []NodeChange, nodes []node.Node) []node.Node {
	col := newCollection(nodes, func(n node.Node) string { return n.ID })

	for _, c := range cs {
		switch c.Type {
		case TypeAdd:
			if c.Item != nil {
				col.add(c.Item.ID, *c.Item)
			}
		case TypeReset:
			if c.Item != nil {
				col.replace(c.TargetID(), c.Item.ID, *c.Item)
			}
		case TypeRemove:
			col.remove(c.ID)
		case TypeSelect:
			if i, ok := col.lookup(c.ID); ok {
				col.items[i].Selected = c.Selected
			}
		case TypePosition:
			i, ok := col.lookup(c.ID)
			if !ok {
				continue
			}
			n := &col.items[i]
			if c.Position != nil {
				n.Position = *c.Position
			}
			if c.PositionAbsolute != nil {
				n.PositionAbsolute = *c.PositionAbsolute
			}
			n.Dragging = c.Dragging
			if n.ExpandParent {
				expandParent(col, i)
			}
		case TypeDimensions:
			i, ok := col.lookup(c.ID)
			if !ok {
				continue
			}
			if c.Dimensions != nil {
				col.items[i].Width = c.Dimensions.Width
				col.items[i].Height = c.Dimensions.Height
			}
			if col.items[i].ExpandParent {
				expandParent(col, i)
			}
		}
	}

	return col.result()
}

// expandParent grows the parent of the node at index i so the node's box
// fits inside it. A child pushed past the parent's top or left edge moves the
// parent instead and is pinned to the parent's origin on that axis.
func expandParent(col *collection[node.Node], i int) {
	child := &col.items[i]
	if child.ParentID == "" || !child.Dimensions().Known() {
		return
	}
	pi, ok := col.lookup(child.ParentID)
	if !ok {
		return
	}
	parent := &col.items[pi]

	extendWidth := child.Position.X + child.Width - parent.Width
	extendHeight := child.Position.Y + child.Height - parent.Height
	if extendWidth <= 0 && extendHeight <= 0 && child.Position.X >= 0 && child.Position.Y >= 0 {
		return
	}

	width, height := parent.Width, parent.Height
	if extendWidth > 0 {
		width += extendWidth
	}
	if extendHeight > 0 {
		height += extendHeight
	}
	if child.Position.X < 0 {
		dx := -child.Position.X
		parent.Position.X -= dx
		width += dx
		child.Position.X = 0
	}
	if child.Position.Y < 0 {
		dy := -child.Position.Y
		parent.Position.Y -= dy
		height += dy
		child.Position.Y = 0
	}
	parent.Width, parent.Height = width, height
}

// ApplyEdgeChanges is ApplyNodeChanges for edges. Position and dimensions
// records do not apply to edges and are ignored.
func ApplyEdgeChanges(cs []EdgeChange, edges []edge.Edge) []edge.Edge {
	col := newCollection(edges, func(e edge.Edge) string { return e.ID })

	for _, c := range cs {
		switch c.Type {
		case TypeAdd:
			if c.Item != nil {
				col.add(c.Item.ID, *c.Item)
			}
		case TypeReset:
			if c.Item != nil {
				col.replace(c.TargetID(), c.Item.ID, *c.Item)
			}
		case TypeRemove:
			col.remove(c.ID)
		case TypeSelect:
			if i, ok := col.lookup(c.ID); ok {
				col.items[i].Selected = c.Selected
			}
		}
	}

	return col.result()
}
