package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcanvas/internal/application/flow"
	"flowcanvas/internal/config"
	"flowcanvas/internal/domain/changes"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	apperrors "flowcanvas/internal/errors"
	"flowcanvas/internal/infrastructure/observability"
	"flowcanvas/internal/panzoom"
	"flowcanvas/internal/store"
	"flowcanvas/internal/visibility"
)

type fixture struct {
	handler http.Handler
	flow    *flow.Instance
	cull    *atomic.Bool
}

func newFixture(t *testing.T, withPanZoom bool) *fixture {
	t.Helper()
	cfg := config.Default(config.Development)
	cfg.Viewport = config.ViewportSize{Width: 800, Height: 600}

	s := store.New(cfg.StoreSettings(), nil)
	if withPanZoom {
		s.AttachPanZoom(panzoom.NewBehavior(geometry.Identity, cfg.Editor.MinZoom, cfg.Editor.MaxZoom, s.SetTransform, nil))
	}
	f := flow.NewInstance(s, nil, nil)
	collector := observability.NewCollector("test")
	collector.Attach(s)
	cull := &atomic.Bool{}

	return &fixture{
		handler: NewRouter(f, collector, cfg, cull, nil).Setup(),
		flow:    f,
		cull:    cull,
	}
}

func (fx *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	rec := httptest.NewRecorder()
	fx.handler.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[apperrors.HTTPErrorResponse](t, rec).Error.Code
}

func seed(t *testing.T, fx *fixture) {
	t.Helper()
	rec := fx.do(t, http.MethodPut, "/api/v1/flow", ReplaceFlowRequest{
		Nodes: []node.Node{
			{ID: "a", Position: geometry.XYPosition{X: 0, Y: 0}},
			{ID: "b", Position: geometry.XYPosition{X: 300, Y: 150}},
		},
		Edges: []edge.Edge{{ID: "e1", Source: "a", Target: "b"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func measure(t *testing.T, fx *fixture, ids ...string) []changes.NodeChange {
	t.Helper()
	req := NodeDimensionsRequest{}
	for _, id := range ids {
		req.Updates = append(req.Updates, MeasurementDTO{ID: id, Width: 100, Height: 50})
	}
	rec := fx.do(t, http.MethodPost, "/api/v1/nodes/dimensions", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[struct {
		Changes []changes.NodeChange `json:"changes"`
	}](t, rec).Changes
}

func TestHealth(t *testing.T) {
	fx := newFixture(t, true)

	rec := fx.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["viewportInitialized"])
}

func TestFlow_RoundTrip(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)

	rec := fx.do(t, http.MethodGet, "/api/v1/flow", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	obj := decodeBody[flow.Object](t, rec)
	require.Len(t, obj.Nodes, 2)
	assert.Equal(t, "b", obj.Nodes[1].ID)
	assert.Equal(t, geometry.XYPosition{}, obj.Nodes[1].PositionAbsolute, "internal fields are stripped")
	require.Len(t, obj.Edges, 1)
	assert.Equal(t, geometry.Identity, obj.Viewport)
}

func TestNodes(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)

	t.Run("get", func(t *testing.T) {
		rec := fx.do(t, http.MethodGet, "/api/v1/nodes/b", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, geometry.XYPosition{X: 300, Y: 150}, decodeBody[node.Node](t, rec).PositionAbsolute)
	})

	t.Run("unknown", func(t *testing.T) {
		rec := fx.do(t, http.MethodGet, "/api/v1/nodes/zz", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NODE_NOT_FOUND", errorCode(t, rec))
	})

	t.Run("add requires ids", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/nodes", AddNodesRequest{Nodes: []node.Node{{Type: "input"}}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[apperrors.HTTPErrorResponse](t, rec)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Contains(t, body.Error.Details, "nodes[0].id is required")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		fx.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/nodes", bytes.NewBufferString("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))
	})

	t.Run("add", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/nodes", AddNodesRequest{Nodes: []node.Node{{ID: "c"}}})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Len(t, fx.flow.GetNodes(), 3)
	})

	t.Run("move", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/nodes/a/move", MoveNodeRequest{DX: 10, DY: 5, Dragging: true})
		require.Equal(t, http.StatusOK, rec.Code)
		cs := decodeBody[struct {
			Changes []changes.NodeChange `json:"changes"`
		}](t, rec).Changes
		require.Len(t, cs, 1)
		assert.Equal(t, changes.TypePosition, cs[0].Type)
		assert.Equal(t, geometry.XYPosition{X: 10, Y: 5}, *cs[0].Position)

		n, _ := fx.flow.GetNode("a")
		assert.True(t, n.Dragging)
	})

	t.Run("delete keeps edges", func(t *testing.T) {
		rec := fx.do(t, http.MethodDelete, "/api/v1/nodes/a", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		_, ok := fx.flow.GetEdge("e1")
		assert.True(t, ok)
	})
}

func TestUpdateDimensions(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)

	first := measure(t, fx, "a", "zz")
	require.Len(t, first, 1, "unknown ids are ignored")
	assert.Equal(t, geometry.Dimensions{Width: 100, Height: 50}, *first[0].Dimensions)

	assert.Empty(t, measure(t, fx, "a"), "an unchanged size produces no record")
}

func TestMeasurementDTO_Decode(t *testing.T) {
	body := `{
		"id": "a", "width": 100, "height": 50,
		"bounds": {"x": 10, "y": 20, "width": 200, "height": 100},
		"handles": [{"id": "out", "type": "source", "position": "right", "bounds": {"x": 200, "y": 40, "width": 10, "height": 20}}]
	}`
	var m MeasurementDTO
	require.NoError(t, json.Unmarshal([]byte(body), &m))

	var measured node.Measurement = m
	assert.Equal(t, geometry.Rect{X: 10, Y: 20, Width: 200, Height: 100}, measured.Bounds())
	require.Len(t, measured.Handles(), 1)
	h := measured.Handles()[0]
	assert.Equal(t, "out", h.ID)
	assert.Equal(t, node.HandleSource, h.Type)
	assert.Equal(t, node.PositionRight, h.Position)
	assert.Equal(t, geometry.Dimensions{Width: 10, Height: 20}, h.Dimensions)
}

func TestEdges(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)

	t.Run("connect", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/connect", edge.Connection{Source: "b", Target: "a"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "flowcanvas__edge-b-a", decodeBody[edge.Edge](t, rec).ID)
	})

	t.Run("connect twice conflicts", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/connect", edge.Connection{Source: "b", Target: "a"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "EDGE_ALREADY_EXISTS", errorCode(t, rec))
	})

	t.Run("connect unknown node", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/connect", edge.Connection{Source: "a", Target: "zz"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("add duplicate id", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/edges", AddEdgesRequest{Edges: []edge.Edge{{ID: "e1", Source: "a", Target: "b"}}})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("list and delete", func(t *testing.T) {
		rec := fx.do(t, http.MethodGet, "/api/v1/edges", nil)
		assert.Len(t, decodeBody[[]edge.Edge](t, rec), 2)

		rec = fx.do(t, http.MethodDelete, "/api/v1/edges/e1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = fx.do(t, http.MethodGet, "/api/v1/edges/e1", nil)
		assert.Equal(t, "EDGE_NOT_FOUND", errorCode(t, rec))
	})

	t.Run("delete elements needs ids", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/elements/delete", DeleteElementsRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSelection(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)

	rec := fx.do(t, http.MethodPost, "/api/v1/selection", SelectionRequest{Nodes: []string{"a"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	n, _ := fx.flow.GetNode("a")
	assert.True(t, n.Selected)

	rec = fx.do(t, http.MethodPost, "/api/v1/selection", SelectionRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.do(t, http.MethodPost, "/api/v1/selection/unselect", map[string]any{})
	require.Equal(t, http.StatusNoContent, rec.Code)
	n, _ = fx.flow.GetNode("a")
	assert.False(t, n.Selected)
}

func TestViewport(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)

	t.Run("zoom", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/viewport/zoom", ZoomRequest{Zoom: 5})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2.0, decodeBody[ViewportResponse](t, rec).Viewport.Zoom, "clamped to max zoom")
	})

	t.Run("set", func(t *testing.T) {
		rec := fx.do(t, http.MethodPut, "/api/v1/viewport", SetViewportRequest{X: 10, Y: 20, Zoom: 1})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, geometry.Viewport{X: 10, Y: 20, Zoom: 1}, decodeBody[ViewportResponse](t, rec).Viewport)
	})

	t.Run("project", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/viewport/project", PointRequest{X: 110, Y: 220})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, geometry.XYPosition{X: 100, Y: 200}, decodeBody[geometry.XYPosition](t, rec))
	})

	t.Run("fit view needs measured nodes", func(t *testing.T) {
		rec := fx.do(t, http.MethodPost, "/api/v1/viewport/fit-view", FitViewRequest{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "NOTHING_TO_FIT", errorCode(t, rec))
	})

	t.Run("fit view", func(t *testing.T) {
		measure(t, fx, "a", "b")

		rec := fx.do(t, http.MethodPost, "/api/v1/viewport/fit-view", FitViewRequest{})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.InDelta(t, 800.0/440.0, decodeBody[ViewportResponse](t, rec).Viewport.Zoom, 1e-9)
	})

	t.Run("invalid zoom", func(t *testing.T) {
		rec := fx.do(t, http.MethodPut, "/api/v1/viewport", SetViewportRequest{Zoom: 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestViewport_NotReady(t *testing.T) {
	fx := newFixture(t, false)

	rec := fx.do(t, http.MethodPost, "/api/v1/viewport/zoom-in", ZoomRequest{})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "VIEWPORT_NOT_READY", errorCode(t, rec))

	rec = fx.do(t, http.MethodGet, "/api/v1/viewport", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[ViewportResponse](t, rec).Initialized)
}

func TestVisibleViews(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)
	measure(t, fx, "a", "b")
	// Only a stays on screen.
	fx.do(t, http.MethodPut, "/api/v1/viewport", SetViewportRequest{X: 0, Y: 0, Zoom: 2})
	fx.do(t, http.MethodPut, "/api/v1/viewport/dimensions", DimensionsRequest{Width: 400, Height: 200})

	rec := fx.do(t, http.MethodGet, "/api/v1/view/nodes", nil)
	assert.Len(t, decodeBody[[]node.Node](t, rec), 2, "culling is off by default")

	rec = fx.do(t, http.MethodGet, "/api/v1/view/nodes?cull=true", nil)
	nodes := decodeBody[[]node.Node](t, rec)
	require.Len(t, nodes, 1)
	assert.Equal(t, "a", nodes[0].ID)

	fx.cull.Store(true)
	rec = fx.do(t, http.MethodGet, "/api/v1/view/edges", nil)
	layers := decodeBody[[]visibility.EdgeLayer](t, rec)
	require.Len(t, layers, 1)
	assert.Len(t, layers[0].Edges, 1, "an edge with one endpoint on screen is kept")

	rec = fx.do(t, http.MethodGet, "/api/v1/view/nodes?cull=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	fx := newFixture(t, true)
	seed(t, fx)

	rec := fx.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_store_actions_total{action="setNodes"} 1`)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="PUT",route="/api/v1/flow",status="200"} 1`)
}
