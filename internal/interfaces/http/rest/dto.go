package rest

import (
	"time"

	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/store"
	"flowcanvas/internal/viewport"
)

// ============================================================================
// GRAPH
// ============================================================================

// ReplaceFlowRequest replaces the whole graph and optionally the camera.
type ReplaceFlowRequest struct {
	Nodes    []node.Node        `json:"nodes" validate:"dive"`
	Edges    []edge.Edge        `json:"edges" validate:"dive"`
	Viewport *geometry.Viewport `json:"viewport,omitempty"`
}

// AddNodesRequest appends nodes.
type AddNodesRequest struct {
	Nodes []node.Node `json:"nodes" validate:"required,min=1,dive"`
}

// AddEdgesRequest appends edges.
type AddEdgesRequest struct {
	Edges []edge.Edge `json:"edges" validate:"required,min=1,dive"`
}

// DeleteElementsRequest removes nodes and edges by id.
type DeleteElementsRequest struct {
	Nodes []string `json:"nodes" validate:"required_without=Edges,dive,required"`
	Edges []string `json:"edges" validate:"required_without=Nodes,dive,required"`
}

// MoveNodeRequest is one drag step for the node in the path.
type MoveNodeRequest struct {
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Dragging bool    `json:"dragging"`
}

// NodeDimensionsRequest reports measured node elements.
type NodeDimensionsRequest struct {
	Updates []MeasurementDTO `json:"updates" validate:"required,min=1,dive"`
}

// MeasurementDTO is a measured node element as the host reports it.
type MeasurementDTO struct {
	ID          string              `json:"id" validate:"required"`
	Width       float64             `json:"width" validate:"gte=0"`
	Height      float64             `json:"height" validate:"gte=0"`
	Box         geometry.Rect       `json:"bounds"`
	HandleList  []HandleMeasurement `json:"handles" validate:"dive"`
	ForceUpdate bool                `json:"forceUpdate"`
}

// HandleMeasurement is one measured handle element.
type HandleMeasurement struct {
	ID       string              `json:"id"`
	Type     node.HandleType     `json:"type" validate:"oneof=source target"`
	Position node.HandlePosition `json:"position" validate:"oneof=left top right bottom"`
	Bounds   geometry.Rect       `json:"bounds"`
}

var _ node.Measurement = MeasurementDTO{}

// Dimensions implements node.Measurement.
func (m MeasurementDTO) Dimensions() geometry.Dimensions {
	return geometry.Dimensions{Width: m.Width, Height: m.Height}
}

// Bounds implements node.Measurement.
func (m MeasurementDTO) Bounds() geometry.Rect {
	return m.Box
}

// Handles implements node.Measurement.
func (m MeasurementDTO) Handles() []node.HandleMeasurement {
	out := make([]node.HandleMeasurement, len(m.HandleList))
	for i, h := range m.HandleList {
		out[i] = node.HandleMeasurement{
			ID:         h.ID,
			Type:       h.Type,
			Position:   h.Position,
			Bounds:     h.Bounds,
			Dimensions: geometry.Dimensions{Width: h.Bounds.Width, Height: h.Bounds.Height},
		}
	}
	return out
}

func (r NodeDimensionsRequest) updates() []store.NodeDimensionUpdate {
	out := make([]store.NodeDimensionUpdate, len(r.Updates))
	for i, m := range r.Updates {
		out[i] = store.NodeDimensionUpdate{ID: m.ID, Element: m, ForceUpdate: m.ForceUpdate}
	}
	return out
}

// SelectionRequest names nodes and edges.
type SelectionRequest struct {
	Nodes []string `json:"nodes" validate:"dive,required"`
	Edges []string `json:"edges" validate:"dive,required"`
}

// ============================================================================
// VIEWPORT
// ============================================================================

// animated carries the optional transition length of a camera command.
type animated struct {
	DurationMS int `json:"durationMs" validate:"gte=0"`
}

func (a animated) duration() time.Duration {
	return time.Duration(a.DurationMS) * time.Millisecond
}

// SetViewportRequest jumps or animates to a transform.
type SetViewportRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom" validate:"gt=0"`
	animated
}

// ZoomRequest steps or sets the zoom. Zoom is ignored by zoom-in and
// zoom-out.
type ZoomRequest struct {
	Zoom float64 `json:"zoom" validate:"gte=0"`
	animated
}

// CenterRequest centers a graph point.
type CenterRequest struct {
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Zoom *float64 `json:"zoom,omitempty" validate:"omitempty,gt=0"`
	animated
}

func (r CenterRequest) options() viewport.CenterOptions {
	return viewport.CenterOptions{Zoom: r.Zoom, Duration: r.duration()}
}

// FitViewRequest frames the graph.
type FitViewRequest struct {
	Padding            *float64 `json:"padding,omitempty" validate:"omitempty,gte=0"`
	IncludeHiddenNodes bool     `json:"includeHiddenNodes"`
	MinZoom            *float64 `json:"minZoom,omitempty" validate:"omitempty,gt=0"`
	MaxZoom            *float64 `json:"maxZoom,omitempty" validate:"omitempty,gt=0"`
	Nodes              []string `json:"nodes"`
	animated
}

func (r FitViewRequest) options() store.FitViewOptions {
	return store.FitViewOptions{
		Padding:            r.Padding,
		IncludeHiddenNodes: r.IncludeHiddenNodes,
		MinZoom:            r.MinZoom,
		MaxZoom:            r.MaxZoom,
		Duration:           r.duration(),
		Nodes:              r.Nodes,
	}
}

// FitBoundsRequest frames a graph-space rectangle.
type FitBoundsRequest struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width" validate:"gt=0"`
	Height  float64  `json:"height" validate:"gt=0"`
	Padding *float64 `json:"padding,omitempty" validate:"omitempty,gte=0"`
	animated
}

func (r FitBoundsRequest) rect() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (r FitBoundsRequest) options() viewport.FitBoundsOptions {
	return viewport.FitBoundsOptions{Padding: r.Padding, Duration: r.duration()}
}

// PointRequest is a screen point to project.
type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DimensionsRequest resizes the container.
type DimensionsRequest struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// ViewportResponse describes the camera.
type ViewportResponse struct {
	Viewport    geometry.Viewport `json:"viewport"`
	Initialized bool              `json:"initialized"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	MinZoom     float64           `json:"minZoom"`
	MaxZoom     float64           `json:"maxZoom"`
}
