package rest

import (
	"net/http"
	"strconv"

	"flowcanvas/internal/domain/geometry"
	apperrors "flowcanvas/internal/errors"
	"flowcanvas/internal/visibility"
)

// ============================================================================
// VIEWPORT
// ============================================================================

// GetViewport handles GET /viewport
func (h *CanvasHandler) GetViewport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.viewport(), h.logger)
}

func (h *CanvasHandler) viewport() ViewportResponse {
	st := h.flow.Store().Snapshot()
	return ViewportResponse{
		Viewport:    st.Transform,
		Initialized: st.ViewportInitialized(),
		Width:       st.Width,
		Height:      st.Height,
		MinZoom:     st.MinZoom,
		MaxZoom:     st.MaxZoom,
	}
}

// ready fails the request when no pan/zoom capability is attached; camera
// commands would silently do nothing otherwise.
func (h *CanvasHandler) ready(w http.ResponseWriter, r *http.Request) bool {
	if h.flow.ViewportInitialized() {
		return true
	}
	h.fail(w, r, apperrors.Unavailable(apperrors.CodeViewportNotReady, "Viewport is not initialized").Build())
	return false
}

// SetViewport handles PUT /viewport
func (h *CanvasHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req SetViewportRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.ready(w, r) {
		return
	}
	h.flow.SetViewport(geometry.Viewport{X: req.X, Y: req.Y, Zoom: req.Zoom}, req.duration())
	respondJSON(w, http.StatusOK, h.viewport(), h.logger)
}

// ZoomIn handles POST /viewport/zoom-in
func (h *CanvasHandler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.zoom(w, r, func(req ZoomRequest) { h.flow.ZoomIn(req.duration()) })
}

// ZoomOut handles POST /viewport/zoom-out
func (h *CanvasHandler) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.zoom(w, r, func(req ZoomRequest) { h.flow.ZoomOut(req.duration()) })
}

// ZoomTo handles POST /viewport/zoom
func (h *CanvasHandler) ZoomTo(w http.ResponseWriter, r *http.Request) {
	h.zoom(w, r, func(req ZoomRequest) { h.flow.ZoomTo(req.Zoom, req.duration()) })
}

func (h *CanvasHandler) zoom(w http.ResponseWriter, r *http.Request, apply func(ZoomRequest)) {
	var req ZoomRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.ready(w, r) {
		return
	}
	apply(req)
	respondJSON(w, http.StatusOK, h.viewport(), h.logger)
}

// SetCenter handles POST /viewport/center
func (h *CanvasHandler) SetCenter(w http.ResponseWriter, r *http.Request) {
	var req CenterRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.ready(w, r) {
		return
	}
	h.flow.SetCenter(req.X, req.Y, req.options())
	respondJSON(w, http.StatusOK, h.viewport(), h.logger)
}

// FitView handles POST /viewport/fit-view
func (h *CanvasHandler) FitView(w http.ResponseWriter, r *http.Request) {
	var req FitViewRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.ready(w, r) {
		return
	}
	if !h.flow.FitView(req.options()) {
		h.fail(w, r, apperrors.Validation(apperrors.CodeNothingToFit, "No measured node to fit").Build())
		return
	}
	respondJSON(w, http.StatusOK, h.viewport(), h.logger)
}

// FitBounds handles POST /viewport/fit-bounds
func (h *CanvasHandler) FitBounds(w http.ResponseWriter, r *http.Request) {
	var req FitBoundsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if !h.ready(w, r) {
		return
	}
	h.flow.FitBounds(req.rect(), req.options())
	respondJSON(w, http.StatusOK, h.viewport(), h.logger)
}

// Project handles POST /viewport/project
func (h *CanvasHandler) Project(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.flow.Project(geometry.XYPosition{X: req.X, Y: req.Y}), h.logger)
}

// Resize handles PUT /viewport/dimensions
func (h *CanvasHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var req DimensionsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flow.Store().SetDimensions(req.Width, req.Height)
	respondJSON(w, http.StatusOK, h.viewport(), h.logger)
}

// ============================================================================
// VISIBLE VIEWS
// ============================================================================

// onlyRenderVisible reads ?cull=, falling back to the configured setting.
func (h *CanvasHandler) onlyRenderVisible(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("cull")
	if raw == "" {
		return h.cull.Load(), nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.Validation(apperrors.CodeInvalidInput, "cull must be a boolean").
			WithDetails(raw).
			Build()
	}
	return v, nil
}

// VisibleNodes handles GET /view/nodes
func (h *CanvasHandler) VisibleNodes(w http.ResponseWriter, r *http.Request) {
	cull, err := h.onlyRenderVisible(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, visibility.VisibleNodes(h.flow.Store().Snapshot(), cull), h.logger)
}

// EdgeLayers handles GET /view/edges
func (h *CanvasHandler) EdgeLayers(w http.ResponseWriter, r *http.Request) {
	cull, err := h.onlyRenderVisible(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	st := h.flow.Store().Snapshot()
	layers := visibility.GroupEdgesByZLevel(visibility.VisibleEdges(st, cull), st.Nodes)
	respondJSON(w, http.StatusOK, layers, h.logger)
}
