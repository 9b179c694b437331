package store

import (
	"flowcanvas/internal/domain/changes"
	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/panzoom"
)

// Mode selects who owns a collection.
type Mode string

const (
	// ModeControlled forwards change records to the owner's callback and
	// leaves the store's copy untouched. The owner pushes its collection back
	// through SetNodes or SetEdges.
	ModeControlled Mode = "controlled"
	// ModeUncontrolled merges change records into the store's own copy.
	ModeUncontrolled Mode = "uncontrolled"
)

// ConnectionMode decides which handle pairings a connection gesture accepts.
type ConnectionMode string

const (
	// ConnectionStrict only pairs a source handle with a target handle.
	ConnectionStrict ConnectionMode = "strict"
	// ConnectionLoose pairs any two handles.
	ConnectionLoose ConnectionMode = "loose"
)

// ConnectionState is the connection-in-progress part of the snapshot.
type ConnectionState struct {
	NodeID     string              `json:"nodeId,omitempty"`
	HandleID   string              `json:"handleId,omitempty"`
	HandleType node.HandleType     `json:"handleType,omitempty"`
	Position   geometry.XYPosition `json:"position"`
}

// Active reports whether a gesture currently owns the connection fields.
func (c ConnectionState) Active() bool {
	return c.NodeID != ""
}

// State is one immutable snapshot of the store. Observers may keep a State
// for as long as they like; the store never mutates a published snapshot.
type State struct {
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Transform geometry.Transform `json:"transform"`

	Nodes *node.Internals `json:"-"`
	Edges []edge.Edge     `json:"edges"`

	MinZoom         float64                   `json:"minZoom"`
	MaxZoom         float64                   `json:"maxZoom"`
	TranslateExtent geometry.CoordinateExtent `json:"-"`
	NodeExtent      geometry.CoordinateExtent `json:"-"`

	NodesSelectionActive bool `json:"nodesSelectionActive"`
	MultiSelectionActive bool `json:"multiSelectionActive"`

	Connection     ConnectionState `json:"connection"`
	ConnectionMode ConnectionMode  `json:"connectionMode"`
	ConnectOnClick bool            `json:"connectOnClick"`

	SnapToGrid bool              `json:"snapToGrid"`
	SnapGrid   geometry.SnapGrid `json:"snapGrid"`

	NodesDraggable     bool `json:"nodesDraggable"`
	NodesConnectable   bool `json:"nodesConnectable"`
	ElementsSelectable bool `json:"elementsSelectable"`

	FitViewOnInit        bool            `json:"fitViewOnInit"`
	FitViewOnInitDone    bool            `json:"fitViewOnInitDone"`
	FitViewOnInitOptions *FitViewOptions `json:"fitViewOnInitOptions,omitempty"`

	DefaultEdgeOptions *edge.DefaultOptions `json:"defaultEdgeOptions,omitempty"`

	NodeMode Mode `json:"nodeMode"`
	EdgeMode Mode `json:"edgeMode"`

	// PanZoom is nil until a capability attaches.
	PanZoom panzoom.PanZoom `json:"-"`

	// handleBounds caches the latest handle measurement per node. It
	// survives controlled mode, where measurements never reach the node map.
	handleBounds map[string]*node.HandleBounds
}

// NodeList returns the nodes in insertion order.
func (s State) NodeList() []node.Node {
	return s.Nodes.Nodes()
}

// ViewportInitialized reports whether a pan/zoom capability is attached.
func (s State) ViewportInitialized() bool {
	return s.PanZoom != nil
}

// Settings is the configuration a store starts from and returns to on Reset.
type Settings struct {
	Width              float64
	Height             float64
	MinZoom            float64
	MaxZoom            float64
	TranslateExtent    geometry.CoordinateExtent
	NodeExtent         geometry.CoordinateExtent
	SnapToGrid         bool
	SnapGrid           geometry.SnapGrid
	ConnectionMode     ConnectionMode
	ConnectOnClick     bool
	NodesDraggable     bool
	NodesConnectable   bool
	ElementsSelectable bool
	FitViewOnInit      bool
	FitViewOptions     *FitViewOptions
	DefaultEdgeOptions *edge.DefaultOptions
	NodeMode           Mode
	EdgeMode           Mode
}

// DefaultSettings returns the stock editor configuration.
func DefaultSettings() Settings {
	return Settings{
		MinZoom:            0.5,
		MaxZoom:            2,
		TranslateExtent:    geometry.InfiniteExtent,
		NodeExtent:         geometry.InfiniteExtent,
		SnapGrid:           geometry.DefaultSnapGrid,
		ConnectionMode:     ConnectionStrict,
		ConnectOnClick:     true,
		NodesDraggable:     true,
		NodesConnectable:   true,
		ElementsSelectable: true,
		NodeMode:           ModeControlled,
		EdgeMode:           ModeControlled,
	}
}

func initialState(s Settings) State {
	nodeMode, edgeMode := s.NodeMode, s.EdgeMode
	if nodeMode == "" {
		nodeMode = ModeControlled
	}
	if edgeMode == "" {
		edgeMode = ModeControlled
	}
	connMode := s.ConnectionMode
	if connMode == "" {
		connMode = ConnectionStrict
	}
	def := DefaultSettings()
	if s.MinZoom <= 0 {
		s.MinZoom = def.MinZoom
	}
	if s.MaxZoom <= 0 {
		s.MaxZoom = def.MaxZoom
	}
	if s.SnapGrid == (geometry.SnapGrid{}) {
		s.SnapGrid = def.SnapGrid
	}
	// A zero extent is an unset one.
	if s.TranslateExtent == (geometry.CoordinateExtent{}) {
		s.TranslateExtent = geometry.InfiniteExtent
	}
	if s.NodeExtent == (geometry.CoordinateExtent{}) {
		s.NodeExtent = geometry.InfiniteExtent
	}

	return State{
		Width:                s.Width,
		Height:               s.Height,
		Transform:            geometry.Identity,
		Nodes:                node.EmptyInternals(),
		Edges:                []edge.Edge{},
		MinZoom:              s.MinZoom,
		MaxZoom:              s.MaxZoom,
		TranslateExtent:      s.TranslateExtent,
		NodeExtent:           s.NodeExtent,
		ConnectionMode:       connMode,
		ConnectOnClick:       s.ConnectOnClick,
		SnapToGrid:           s.SnapToGrid,
		SnapGrid:             s.SnapGrid,
		NodesDraggable:       s.NodesDraggable,
		NodesConnectable:     s.NodesConnectable,
		ElementsSelectable:   s.ElementsSelectable,
		FitViewOnInit:        s.FitViewOnInit,
		FitViewOnInitOptions: s.FitViewOptions,
		DefaultEdgeOptions:   s.DefaultEdgeOptions,
		NodeMode:             nodeMode,
		EdgeMode:             edgeMode,
		handleBounds:         map[string]*node.HandleBounds{},
	}
}

// Event is published once per action, after the action's snapshot is in
// place and before change callbacks run.
type Event struct {
	Action      string
	State       State
	NodeChanges []changes.NodeChange
	EdgeChanges []changes.EdgeChange
}
