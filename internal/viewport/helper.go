// Package viewport derives camera operations from the store's transform and
// the attached pan/zoom capability.
//
// Every call reads a fresh snapshot. Until a capability attaches the helper
// is inert: camera commands do nothing, GetZoom reports 1 and Project is the
// identity, so callers never have to check Initialized first.
package viewport

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/store"
)

// ZoomStep is the factor ZoomIn and ZoomOut apply.
const ZoomStep = 1.2

// CenterOptions tune SetCenter.
type CenterOptions struct {
	// Zoom defaults to the store's max zoom when nil.
	Zoom     *float64
	Duration time.Duration
}

// FitBoundsOptions tune FitBounds.
type FitBoundsOptions struct {
	// Padding defaults to store.DefaultPadding when nil.
	Padding  *float64
	Duration time.Duration
}

// Helper exposes camera operations for one store.
type Helper struct {
	store  *store.Store
	logger *zap.Logger
}

// NewHelper creates a helper bound to s.
func NewHelper(s *store.Store, logger *zap.Logger) *Helper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Helper{store: s, logger: logger}
}

// Initialized reports whether a pan/zoom capability is attached.
func (h *Helper) Initialized() bool {
	return h.store.Snapshot().ViewportInitialized()
}

// ZoomIn multiplies the zoom by ZoomStep.
func (h *Helper) ZoomIn(duration time.Duration) {
	if st := h.store.Snapshot(); st.PanZoom != nil {
		st.PanZoom.ScaleBy(ZoomStep, duration)
	}
}

// ZoomOut divides the zoom by ZoomStep.
func (h *Helper) ZoomOut(duration time.Duration) {
	if st := h.store.Snapshot(); st.PanZoom != nil {
		st.PanZoom.ScaleBy(1/ZoomStep, duration)
	}
}

// ZoomTo sets the zoom to level around the viewport center.
func (h *Helper) ZoomTo(level float64, duration time.Duration) {
	if st := h.store.Snapshot(); st.PanZoom != nil {
		st.PanZoom.ScaleTo(level, duration)
	}
}

// GetZoom returns the current zoom, or 1 before initialization.
func (h *Helper) GetZoom() float64 {
	st := h.store.Snapshot()
	if st.PanZoom == nil {
		return 1
	}
	return st.Transform.Zoom
}

// SetViewport moves the camera to v.
func (h *Helper) SetViewport(v geometry.Viewport, duration time.Duration) {
	if st := h.store.Snapshot(); st.PanZoom != nil {
		st.PanZoom.TransformTo(v, duration)
	}
}

// GetViewport returns the current camera, or the identity before
// initialization.
func (h *Helper) GetViewport() geometry.Viewport {
	st := h.store.Snapshot()
	if st.PanZoom == nil {
		return geometry.Identity
	}
	return st.Transform
}

// SetCenter places graph point (x, y) at the center of the viewport.
func (h *Helper) SetCenter(x, y float64, opts CenterOptions) {
	st := h.store.Snapshot()
	if st.PanZoom == nil {
		return
	}

	zoom := st.MaxZoom
	if opts.Zoom != nil {
		zoom = *opts.Zoom
	}
	st.PanZoom.TransformTo(geometry.Transform{
		X:    st.Width/2 - x*zoom,
		Y:    st.Height/2 - y*zoom,
		Zoom: zoom,
	}, opts.Duration)
}

// FitBounds frames bounds inside the viewport within the zoom limits.
func (h *Helper) FitBounds(bounds geometry.Rect, opts FitBoundsOptions) {
	st := h.store.Snapshot()
	if st.PanZoom == nil {
		return
	}

	padding := store.DefaultPadding
	if opts.Padding != nil {
		padding = *opts.Padding
	}
	t := geometry.TransformForBounds(bounds, st.Width, st.Height, st.MinZoom, st.MaxZoom, padding)
	st.PanZoom.TransformTo(t, opts.Duration)
}

// FitView frames the visible, measured nodes. It reports whether the camera
// was moved.
func (h *Helper) FitView(opts store.FitViewOptions) bool {
	return h.store.FitView(opts)
}

// Project maps a screen point into graph space, honoring grid snapping. The
// point is returned unchanged before initialization.
func (h *Helper) Project(p geometry.XYPosition) geometry.XYPosition {
	st := h.store.Snapshot()
	if st.PanZoom == nil {
		return p
	}
	return geometry.PointToRendererPoint(p, st.Transform, st.SnapToGrid, st.SnapGrid)
}

// OnInit calls fn exactly once, as soon as the viewport is initialized. If it
// already is, fn runs before OnInit returns. The returned function cancels a
// callback that has not fired yet. fn may call back into the store.
func (h *Helper) OnInit(fn func(*Helper)) func() {
	var claimed atomic.Bool
	var mu sync.Mutex
	var unsubscribe func()

	detach := func() {
		mu.Lock()
		u := unsubscribe
		mu.Unlock()
		if u != nil {
			u()
		}
	}
	fire := func() {
		if claimed.CompareAndSwap(false, true) {
			detach()
			h.logger.Debug("Viewport initialized")
			fn(h)
		}
	}

	mu.Lock()
	unsubscribe = h.store.Subscribe(func(ev store.Event) {
		if ev.State.ViewportInitialized() {
			fire()
		}
	})
	mu.Unlock()

	if h.Initialized() {
		fire()
	}

	return func() {
		claimed.Store(true)
		detach()
	}
}
