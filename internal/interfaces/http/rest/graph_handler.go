package rest

import (
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flowcanvas/internal/application/flow"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	apperrors "flowcanvas/internal/errors"
	"flowcanvas/internal/store"
)

// CanvasHandler serves one canvas through its flow instance.
type CanvasHandler struct {
	flow   *flow.Instance
	cull   *atomic.Bool
	logger *zap.Logger
}

// NewCanvasHandler creates a handler for f. cull holds the current
// only-render-visible setting and may change while serving.
func NewCanvasHandler(f *flow.Instance, cull *atomic.Bool, logger *zap.Logger) *CanvasHandler {
	if cull == nil {
		cull = &atomic.Bool{}
	}
	return &CanvasHandler{flow: f, cull: cull, logger: logger}
}

func (h *CanvasHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.WriteHTTPError(w, r, err, h.logger)
}

// ============================================================================
// FLOW
// ============================================================================

// GetFlow handles GET /flow
func (h *CanvasHandler) GetFlow(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.flow.ToObject(), h.logger)
}

// ReplaceFlow handles PUT /flow
func (h *CanvasHandler) ReplaceFlow(w http.ResponseWriter, r *http.Request) {
	var req ReplaceFlowRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	h.flow.SetNodes(req.Nodes)
	h.flow.SetEdges(req.Edges)
	if req.Viewport != nil {
		h.flow.SetViewport(*req.Viewport, 0)
	}

	h.logger.Info("Flow replaced",
		zap.Int("nodes", len(req.Nodes)),
		zap.Int("edges", len(req.Edges)),
	)
	respondJSON(w, http.StatusOK, h.flow.ToObject(), h.logger)
}

// DeleteElements handles POST /elements/delete
func (h *CanvasHandler) DeleteElements(w http.ResponseWriter, r *http.Request) {
	var req DeleteElementsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flow.DeleteElements(req.Nodes, req.Edges)
	w.WriteHeader(http.StatusNoContent)
}

// Connect handles POST /connect
func (h *CanvasHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var c edge.Connection
	if err := decode(w, r, &c); err != nil {
		h.fail(w, r, err)
		return
	}
	for _, id := range []string{c.Source, c.Target} {
		if _, ok := h.flow.GetNode(id); !ok {
			h.fail(w, r, apperrors.NotFound(apperrors.CodeNodeNotFound, "Node not found").WithResource(id).Build())
			return
		}
	}

	e, ok := h.flow.Connect(c)
	if !ok {
		h.fail(w, r, apperrors.Conflict(apperrors.CodeEdgeExists, "Connection already exists").
			WithDetails(c.Source+" -> "+c.Target).
			Build())
		return
	}
	respondJSON(w, http.StatusCreated, e, h.logger)
}

// ============================================================================
// NODES
// ============================================================================

// ListNodes handles GET /nodes
func (h *CanvasHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.flow.GetNodes(), h.logger)
}

// GetNode handles GET /nodes/{nodeID}
func (h *CanvasHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	n, ok := h.flow.GetNode(id)
	if !ok {
		h.fail(w, r, apperrors.NotFound(apperrors.CodeNodeNotFound, "Node not found").WithResource(id).Build())
		return
	}
	respondJSON(w, http.StatusOK, n, h.logger)
}

// AddNodes handles POST /nodes
func (h *CanvasHandler) AddNodes(w http.ResponseWriter, r *http.Request) {
	var req AddNodesRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flow.AddNodes(req.Nodes...)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNode handles DELETE /nodes/{nodeID}
func (h *CanvasHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	if _, ok := h.flow.GetNode(id); !ok {
		h.fail(w, r, apperrors.NotFound(apperrors.CodeNodeNotFound, "Node not found").WithResource(id).Build())
		return
	}
	h.flow.DeleteElements([]string{id}, nil)
	w.WriteHeader(http.StatusNoContent)
}

// MoveNode handles POST /nodes/{nodeID}/move. The response lists the
// position records the step produced.
func (h *CanvasHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	var req MoveNodeRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if _, ok := h.flow.GetNode(id); !ok {
		h.fail(w, r, apperrors.NotFound(apperrors.CodeNodeNotFound, "Node not found").WithResource(id).Build())
		return
	}

	cs := h.flow.Store().UpdateNodePosition(store.NodeDiffUpdate{
		ID:       id,
		Diff:     geometry.XYPosition{X: req.DX, Y: req.DY},
		Dragging: req.Dragging,
	})
	respondJSON(w, http.StatusOK, map[string]any{"changes": cs}, h.logger)
}

// UpdateDimensions handles POST /nodes/dimensions
func (h *CanvasHandler) UpdateDimensions(w http.ResponseWriter, r *http.Request) {
	var req NodeDimensionsRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	cs := h.flow.Store().UpdateNodeDimensions(req.updates())
	respondJSON(w, http.StatusOK, map[string]any{"changes": cs}, h.logger)
}

// ============================================================================
// EDGES
// ============================================================================

// ListEdges handles GET /edges
func (h *CanvasHandler) ListEdges(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.flow.GetEdges(), h.logger)
}

// GetEdge handles GET /edges/{edgeID}
func (h *CanvasHandler) GetEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "edgeID")
	e, ok := h.flow.GetEdge(id)
	if !ok {
		h.fail(w, r, apperrors.NotFound(apperrors.CodeEdgeNotFound, "Edge not found").WithResource(id).Build())
		return
	}
	respondJSON(w, http.StatusOK, e, h.logger)
}

// AddEdges handles POST /edges
func (h *CanvasHandler) AddEdges(w http.ResponseWriter, r *http.Request) {
	var req AddEdgesRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	for _, e := range req.Edges {
		if _, ok := h.flow.GetEdge(e.ID); ok {
			h.fail(w, r, apperrors.Conflict(apperrors.CodeEdgeExists, "Edge already exists").WithResource(e.ID).Build())
			return
		}
	}
	h.flow.AddEdges(req.Edges...)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEdge handles DELETE /edges/{edgeID}
func (h *CanvasHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "edgeID")
	if _, ok := h.flow.GetEdge(id); !ok {
		h.fail(w, r, apperrors.NotFound(apperrors.CodeEdgeNotFound, "Edge not found").WithResource(id).Build())
		return
	}
	h.flow.DeleteElements(nil, []string{id})
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// SELECTION
// ============================================================================

// Select handles POST /selection. Nodes win when both lists are given.
func (h *CanvasHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	switch {
	case len(req.Nodes) > 0:
		h.flow.Store().AddSelectedNodes(req.Nodes)
	case len(req.Edges) > 0:
		h.flow.Store().AddSelectedEdges(req.Edges)
	default:
		h.fail(w, r, apperrors.Validation(apperrors.CodeInvalidInput, "Nothing to select").Build())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unselect handles POST /selection/unselect. An omitted list means every
// item of that kind.
func (h *CanvasHandler) Unselect(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flow.Store().UnselectNodesAndEdges(store.UnselectParams{Nodes: req.Nodes, Edges: req.Edges})
	w.WriteHeader(http.StatusNoContent)
}

// ResetSelection handles DELETE /selection
func (h *CanvasHandler) ResetSelection(w http.ResponseWriter, r *http.Request) {
	h.flow.Store().ResetSelectedElements()
	w.WriteHeader(http.StatusNoContent)
}
