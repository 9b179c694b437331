package store

import (
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/panzoom"
)

// AttachPanZoom connects the camera capability, or detaches it when pz is
// nil. The capability receives the current bounds and, if it can, the
// viewport size.
func (s *Store) AttachPanZoom(pz panzoom.PanZoom) {
	s.update("attachPanZoom", func(tx *txn) {
		tx.next.PanZoom = pz
		if pz == nil {
			return
		}
		st := tx.next
		tx.effect(func() {
			pz.SetScaleExtent(st.MinZoom, st.MaxZoom)
			pz.SetTranslateExtent(st.TranslateExtent)
			if r, ok := pz.(panzoom.Resizer); ok {
				r.Resize(st.Width, st.Height)
			}
		})
		tx.tryInitialFit()
	})
}

// SetTransform records the camera the capability settled on.
func (s *Store) SetTransform(t geometry.Transform) {
	s.update("setTransform", func(tx *txn) {
		tx.next.Transform = t
	})
}

// SetDimensions records the viewport size in screen pixels.
func (s *Store) SetDimensions(width, height float64) {
	s.update("setDimensions", func(tx *txn) {
		tx.next.Width, tx.next.Height = width, height
		if r, ok := tx.next.PanZoom.(panzoom.Resizer); ok {
			tx.effect(func() { r.Resize(width, height) })
		}
		tx.tryInitialFit()
	})
}

// SetMinZoom updates the lower zoom bound.
func (s *Store) SetMinZoom(min float64) {
	s.update("setMinZoom", func(tx *txn) {
		tx.next.MinZoom = min
		tx.pushScaleExtent()
	})
}

// SetMaxZoom updates the upper zoom bound.
func (s *Store) SetMaxZoom(max float64) {
	s.update("setMaxZoom", func(tx *txn) {
		tx.next.MaxZoom = max
		tx.pushScaleExtent()
	})
}

// SetTranslateExtent updates the region the camera may show.
func (s *Store) SetTranslateExtent(e geometry.CoordinateExtent) {
	s.update("setTranslateExtent", func(tx *txn) {
		tx.next.TranslateExtent = e
		tx.pushTranslateExtent()
	})
}

func (tx *txn) pushScaleExtent() {
	if pz := tx.next.PanZoom; pz != nil {
		min, max := tx.next.MinZoom, tx.next.MaxZoom
		tx.effect(func() { pz.SetScaleExtent(min, max) })
	}
}

func (tx *txn) pushTranslateExtent() {
	if pz := tx.next.PanZoom; pz != nil {
		e := tx.next.TranslateExtent
		tx.effect(func() { pz.SetTranslateExtent(e) })
	}
}

// SetSnapGrid configures grid snapping for projected points.
func (s *Store) SetSnapGrid(snap bool, grid geometry.SnapGrid) {
	s.update("setSnapGrid", func(tx *txn) {
		tx.next.SnapToGrid = snap
		tx.next.SnapGrid = grid
	})
}

// SetConnectionMode selects strict or loose handle pairing.
func (s *Store) SetConnectionMode(m ConnectionMode) {
	s.update("setConnectionMode", func(tx *txn) {
		tx.next.ConnectionMode = m
	})
}

// SetDefaultEdgeOptions changes the defaults merged into edges. Edges already
// in the store are not rewritten.
func (s *Store) SetDefaultEdgeOptions(opts *edge.DefaultOptions) {
	s.update("setDefaultEdgeOptions", func(tx *txn) {
		tx.next.DefaultEdgeOptions = opts
	})
}

// SetFitViewOnInit configures the one-shot initial fit.
func (s *Store) SetFitViewOnInit(enabled bool, opts *FitViewOptions) {
	s.update("setFitViewOnInit", func(tx *txn) {
		tx.next.FitViewOnInit = enabled
		tx.next.FitViewOnInitOptions = opts
		tx.tryInitialFit()
	})
}

// SetInteractivity sets the store wide capability defaults.
func (s *Store) SetInteractivity(nodesDraggable, nodesConnectable, elementsSelectable bool) {
	s.update("setInteractivity", func(tx *txn) {
		tx.next.NodesDraggable = nodesDraggable
		tx.next.NodesConnectable = nodesConnectable
		tx.next.ElementsSelectable = elementsSelectable
	})
}

// ApplySettings replaces the tunable part of the configuration in one action,
// as a configuration reload does. The graph, selection and camera are kept.
// The settings also become the state Reset returns to.
func (s *Store) ApplySettings(set Settings) {
	s.update("applySettings", func(tx *txn) {
		s.settings = set
		base := initialState(set)

		tx.next.MinZoom, tx.next.MaxZoom = base.MinZoom, base.MaxZoom
		tx.next.TranslateExtent = base.TranslateExtent
		tx.next.SnapToGrid, tx.next.SnapGrid = base.SnapToGrid, base.SnapGrid
		tx.next.ConnectionMode = base.ConnectionMode
		tx.next.ConnectOnClick = base.ConnectOnClick
		tx.next.NodesDraggable = base.NodesDraggable
		tx.next.NodesConnectable = base.NodesConnectable
		tx.next.ElementsSelectable = base.ElementsSelectable
		tx.next.FitViewOnInit = base.FitViewOnInit
		tx.next.FitViewOnInitOptions = base.FitViewOnInitOptions
		tx.next.DefaultEdgeOptions = base.DefaultEdgeOptions

		tx.pushScaleExtent()
		tx.pushTranslateExtent()
	})

	// The node extent reclamps nodes, which is its own action.
	if e := initialState(set).NodeExtent; s.Snapshot().NodeExtent != e {
		s.SetNodeExtent(e)
	}
}
