package store

import (
	"time"

	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
)

// DefaultPadding is the fractional margin left around fitted content.
const DefaultPadding = 0.1

// FitViewOptions tune a fit-to-content camera move.
type FitViewOptions struct {
	// Padding defaults to DefaultPadding when nil.
	Padding            *float64      `json:"padding,omitempty" yaml:"padding,omitempty"`
	IncludeHiddenNodes bool          `json:"includeHiddenNodes,omitempty" yaml:"includeHiddenNodes,omitempty"`
	MinZoom            *float64      `json:"minZoom,omitempty" yaml:"minZoom,omitempty"`
	MaxZoom            *float64      `json:"maxZoom,omitempty" yaml:"maxZoom,omitempty"`
	Duration           time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	// Nodes restricts the fit to these ids when non-empty.
	Nodes []string `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

func (o FitViewOptions) padding() float64 {
	if o.Padding == nil {
		return DefaultPadding
	}
	return *o.Padding
}

// FitView moves the camera so every eligible node is in view. It reports
// false, and leaves the camera alone, when no pan/zoom capability is attached
// or no node qualifies.
func (s *Store) FitView(opts FitViewOptions) bool {
	var ok bool
	s.update("fitView", func(tx *txn) {
		var t geometry.Transform
		t, ok = fitViewTransform(tx.next, opts, false)
		if ok {
			pz := tx.next.PanZoom
			tx.effect(func() { pz.TransformTo(t, opts.Duration) })
		}
	})
	return ok
}

// fitViewTransform computes the camera for a fit. Eligible nodes are the
// visible (or, with IncludeHiddenNodes, all) nodes with known dimensions,
// optionally narrowed to opts.Nodes. The initial variant additionally
// refuses to run while any candidate is still unmeasured, so the one-shot
// fit does not frame a half measured graph.
func fitViewTransform(st State, opts FitViewOptions, initial bool) (geometry.Transform, bool) {
	if st.PanZoom == nil || st.Width <= 0 || st.Height <= 0 {
		return geometry.Transform{}, false
	}

	var subset map[string]bool
	if len(opts.Nodes) > 0 {
		subset = make(map[string]bool, len(opts.Nodes))
		for _, id := range opts.Nodes {
			subset[id] = true
		}
	}

	var eligible []node.Node
	for _, n := range st.NodeList() {
		if n.Hidden && !opts.IncludeHiddenNodes {
			continue
		}
		if subset != nil && !subset[n.ID] {
			continue
		}
		if !n.Dimensions().Known() {
			if initial {
				return geometry.Transform{}, false
			}
			continue
		}
		eligible = append(eligible, n)
	}
	if len(eligible) == 0 {
		return geometry.Transform{}, false
	}

	minZoom, maxZoom := st.MinZoom, st.MaxZoom
	if opts.MinZoom != nil {
		minZoom = *opts.MinZoom
	}
	if opts.MaxZoom != nil {
		maxZoom = *opts.MaxZoom
	}

	bounds := node.RectOfNodes(eligible)
	return geometry.TransformForBounds(bounds, st.Width, st.Height, minZoom, maxZoom, opts.padding()), true
}

// tryInitialFit runs the one-shot fit-on-init if it is configured, has not
// fired yet and can succeed against the next snapshot.
func (tx *txn) tryInitialFit() {
	st := tx.next
	if !st.FitViewOnInit || st.FitViewOnInitDone {
		return
	}

	var opts FitViewOptions
	if st.FitViewOnInitOptions != nil {
		opts = *st.FitViewOnInitOptions
	}
	t, ok := fitViewTransform(st, opts, true)
	if !ok {
		return
	}

	tx.next.FitViewOnInitDone = true
	pz := st.PanZoom
	tx.effect(func() { pz.TransformTo(t, opts.Duration) })
}
