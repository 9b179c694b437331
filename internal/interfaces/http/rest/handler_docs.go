package rest

// This file contains OpenAPI/Swagger documentation for the inspector endpoints

// @title flowcanvas inspector
// @version 1
// @description JSON view of one running canvas: graph, camera and visible sets.
// @BasePath /api/v1

// GetFlow returns the whole canvas
// @Summary Get the canvas
// @Description Returns public nodes, edges and the current viewport
// @Tags flow
// @Produce json
// @Success 200 {object} flow.Object
// @Router /flow [get]

// ReplaceFlow replaces the canvas
// @Summary Replace the canvas
// @Description Replaces nodes and edges. In controlled mode the owner receives reset, add and remove records instead
// @Tags flow
// @Accept json
// @Produce json
// @Param request body ReplaceFlowRequest true "Nodes, edges and optional viewport"
// @Success 200 {object} flow.Object
// @Failure 400 {object} errors.HTTPErrorResponse "Invalid request"
// @Router /flow [put]

// Connect adds the edge for a finished connection
// @Summary Connect two nodes
// @Tags flow
// @Accept json
// @Produce json
// @Param request body edge.Connection true "Connection"
// @Success 201 {object} edge.Edge
// @Failure 404 {object} errors.HTTPErrorResponse "Source or target node not found"
// @Failure 409 {object} errors.HTTPErrorResponse "Connection already exists"
// @Router /connect [post]

// DeleteElements removes nodes and edges
// @Summary Delete elements
// @Description Removes exactly the given ids. Edges of removed nodes are kept
// @Tags flow
// @Accept json
// @Param request body DeleteElementsRequest true "Ids to remove"
// @Success 204
// @Router /elements/delete [post]

// ListNodes lists the nodes
// @Summary List nodes
// @Tags nodes
// @Produce json
// @Success 200 {array} node.Node
// @Router /nodes [get]

// GetNode returns one node
// @Summary Get node by ID
// @Tags nodes
// @Produce json
// @Param nodeID path string true "Node ID"
// @Success 200 {object} node.Node
// @Failure 404 {object} errors.HTTPErrorResponse "Node not found"
// @Router /nodes/{nodeID} [get]

// AddNodes appends nodes
// @Summary Add nodes
// @Tags nodes
// @Accept json
// @Param request body AddNodesRequest true "Nodes"
// @Success 204
// @Failure 400 {object} errors.HTTPErrorResponse "Invalid request"
// @Router /nodes [post]

// DeleteNode removes one node
// @Summary Delete node
// @Tags nodes
// @Param nodeID path string true "Node ID"
// @Success 204
// @Failure 404 {object} errors.HTTPErrorResponse "Node not found"
// @Router /nodes/{nodeID} [delete]

// MoveNode applies one drag step
// @Summary Move node
// @Description Moves the node and every other selected node, clamped to their extents
// @Tags nodes
// @Accept json
// @Produce json
// @Param nodeID path string true "Node ID"
// @Param request body MoveNodeRequest true "Drag step"
// @Success 200 {object} map[string][]changes.NodeChange
// @Failure 404 {object} errors.HTTPErrorResponse "Node not found"
// @Router /nodes/{nodeID}/move [post]

// UpdateDimensions reports measured node elements
// @Summary Report node measurements
// @Description Emits one dimensions record per node whose size changed or is forced
// @Tags nodes
// @Accept json
// @Produce json
// @Param request body NodeDimensionsRequest true "Measurements"
// @Success 200 {object} map[string][]changes.NodeChange
// @Router /nodes/dimensions [post]

// ListEdges lists the edges
// @Summary List edges
// @Tags edges
// @Produce json
// @Success 200 {array} edge.Edge
// @Router /edges [get]

// GetEdge returns one edge
// @Summary Get edge by ID
// @Tags edges
// @Produce json
// @Param edgeID path string true "Edge ID"
// @Success 200 {object} edge.Edge
// @Failure 404 {object} errors.HTTPErrorResponse "Edge not found"
// @Router /edges/{edgeID} [get]

// AddEdges appends edges
// @Summary Add edges
// @Tags edges
// @Accept json
// @Param request body AddEdgesRequest true "Edges"
// @Success 204
// @Failure 409 {object} errors.HTTPErrorResponse "Edge already exists"
// @Router /edges [post]

// DeleteEdge removes one edge
// @Summary Delete edge
// @Tags edges
// @Param edgeID path string true "Edge ID"
// @Success 204
// @Failure 404 {object} errors.HTTPErrorResponse "Edge not found"
// @Router /edges/{edgeID} [delete]

// Select selects nodes or edges
// @Summary Select elements
// @Description Nodes win when both lists are given
// @Tags selection
// @Accept json
// @Param request body SelectionRequest true "Ids to select"
// @Success 204
// @Failure 400 {object} errors.HTTPErrorResponse "Nothing to select"
// @Router /selection [post]

// Unselect clears part of the selection
// @Summary Unselect elements
// @Description An omitted list means every item of that kind
// @Tags selection
// @Accept json
// @Param request body SelectionRequest true "Ids to unselect"
// @Success 204
// @Router /selection/unselect [post]

// ResetSelection clears the selection
// @Summary Reset selection
// @Tags selection
// @Success 204
// @Router /selection [delete]

// GetViewport returns the camera
// @Summary Get viewport
// @Tags viewport
// @Produce json
// @Success 200 {object} ViewportResponse
// @Router /viewport [get]

// SetViewport moves the camera
// @Summary Set viewport
// @Tags viewport
// @Accept json
// @Produce json
// @Param request body SetViewportRequest true "Transform"
// @Success 200 {object} ViewportResponse
// @Failure 503 {object} errors.HTTPErrorResponse "Viewport not initialized"
// @Router /viewport [put]

// Resize records the container size
// @Summary Set viewport dimensions
// @Tags viewport
// @Accept json
// @Produce json
// @Param request body DimensionsRequest true "Width and height in pixels"
// @Success 200 {object} ViewportResponse
// @Router /viewport/dimensions [put]

// ZoomIn, ZoomOut and ZoomTo change the zoom around the viewport center
// @Summary Zoom
// @Tags viewport
// @Accept json
// @Produce json
// @Param request body ZoomRequest true "Zoom level (zoom only) and duration"
// @Success 200 {object} ViewportResponse
// @Failure 503 {object} errors.HTTPErrorResponse "Viewport not initialized"
// @Router /viewport/zoom-in [post]
// @Router /viewport/zoom-out [post]
// @Router /viewport/zoom [post]

// SetCenter centers the camera on a graph point
// @Summary Center viewport
// @Tags viewport
// @Accept json
// @Produce json
// @Param request body CenterRequest true "Graph point, optional zoom"
// @Success 200 {object} ViewportResponse
// @Failure 503 {object} errors.HTTPErrorResponse "Viewport not initialized"
// @Router /viewport/center [post]

// FitView frames the measured nodes
// @Summary Fit view
// @Tags viewport
// @Accept json
// @Produce json
// @Param request body FitViewRequest true "Padding, zoom bounds, node subset"
// @Success 200 {object} ViewportResponse
// @Failure 422 {object} errors.HTTPErrorResponse "No measured node to fit"
// @Failure 503 {object} errors.HTTPErrorResponse "Viewport not initialized"
// @Router /viewport/fit-view [post]

// FitBounds frames a graph rectangle
// @Summary Fit bounds
// @Tags viewport
// @Accept json
// @Produce json
// @Param request body FitBoundsRequest true "Rectangle and padding"
// @Success 200 {object} ViewportResponse
// @Failure 503 {object} errors.HTTPErrorResponse "Viewport not initialized"
// @Router /viewport/fit-bounds [post]

// Project converts a screen point to graph space
// @Summary Project point
// @Tags viewport
// @Accept json
// @Produce json
// @Param request body PointRequest true "Screen point"
// @Success 200 {object} geometry.XYPosition
// @Router /viewport/project [post]

// VisibleNodes lists the nodes a renderer should draw
// @Summary Visible nodes
// @Tags view
// @Produce json
// @Param cull query bool false "Override the configured only-render-visible setting"
// @Success 200 {array} node.Node
// @Router /view/nodes [get]

// EdgeLayers lists the visible edges grouped by z level
// @Summary Visible edge layers
// @Tags view
// @Produce json
// @Param cull query bool false "Override the configured only-render-visible setting"
// @Success 200 {array} visibility.EdgeLayer
// @Router /view/edges [get]
