// Package connection implements the connection drag gesture.
//
// PURPOSE:
// A gesture starts on a pointer-down over a handle, tracks the pointer while
// it moves, and on release hands a validated connection to the owner. It
// never inserts an edge itself.
//
// DOMAIN ROLE:
// The gesture writes the connection-in-progress fields of the store, marks
// the hovered handle through the Host, and reports every outcome to an
// Observer.
//
// KEY STATES:
// Idle -> Dragging -> Committed | Aborted. A rejected start never leaves
// Idle and fires nothing.
package connection

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flowcanvas/internal/domain/edge"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/store"
)

// Outcome is how a gesture ended.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeVetoed    Outcome = "vetoed"
	OutcomeCancelled Outcome = "cancelled"
)

// Observer is told about every gesture that passed entry.
type Observer interface {
	GestureStarted()
	GestureFinished(outcome Outcome, elapsed time.Duration)
}

// StartInfo describes the origin handle of a gesture.
type StartInfo struct {
	NodeID     string          `json:"nodeId"`
	HandleID   string          `json:"handleId,omitempty"`
	HandleType node.HandleType `json:"handleType"`
}

// ValidFunc approves or vetoes a candidate connection.
type ValidFunc func(edge.Connection) bool

// StartParams describe a pointer-down on a handle.
type StartParams struct {
	Event    PointerEvent
	NodeID   string
	HandleID string
	// IsTarget is true when the drag starts from a target handle.
	IsTarget bool
	// EdgeUpdaterType overrides the origin role when an existing edge end is
	// dragged. Empty for a new connection.
	EdgeUpdaterType node.HandleType

	IsValidConnection ValidFunc

	OnConnectStart  func(PointerEvent, StartInfo)
	OnConnect       func(edge.Connection)
	OnConnectStop   func(PointerEvent)
	OnConnectEnd    func(PointerEvent)
	OnEdgeUpdateEnd func(PointerEvent)
}

// Controller starts gestures on one canvas.
type Controller struct {
	store    *store.Store
	host     Host
	observer Observer
	logger   *zap.Logger
}

// NewController creates a controller. host may be nil, in which case every
// gesture is rejected. observer may be nil.
func NewController(s *store.Store, host Host, observer Observer, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: s, host: host, observer: observer, logger: logger}
}

// Begin handles a pointer-down. It returns the running gesture, or false when
// the start is rejected.
func (c *Controller) Begin(p StartParams) (*Gesture, bool) {
	if c.host == nil {
		c.logger.Debug("Connection rejected: no host")
		return nil, false
	}
	container, ok := c.host.ContainerBounds()
	if !ok {
		c.logger.Debug("Connection rejected: no container", zap.String("node_id", p.NodeID))
		return nil, false
	}

	below := c.host.ElementFromPoint(p.Event.ClientX, p.Event.ClientY)
	belowIsTarget := below != nil && below.HasClass(ClassTarget)
	if !isHandle(below) && p.EdgeUpdaterType == "" {
		c.logger.Debug("Connection rejected: not over a handle", zap.String("node_id", p.NodeID))
		return nil, false
	}

	handleType := node.HandleSource
	switch {
	case p.EdgeUpdaterType != "":
		handleType = p.EdgeUpdaterType
	case belowIsTarget:
		handleType = node.HandleTarget
	}

	if p.IsValidConnection == nil {
		p.IsValidConnection = func(edge.Connection) bool { return true }
	}

	g := &Gesture{
		id:         uuid.NewString(),
		store:      c.store,
		host:       c.host,
		observer:   c.observer,
		logger:     c.logger,
		params:     p,
		mode:       c.store.Snapshot().ConnectionMode,
		handleType: handleType,
		container:  container,
		started:    time.Now(),
		state:      StateDragging,
	}

	c.store.StartConnection(store.ConnectionState{
		NodeID:     p.NodeID,
		HandleID:   p.HandleID,
		HandleType: handleType,
		Position:   g.local(p.Event),
	})
	if c.observer != nil {
		c.observer.GestureStarted()
	}
	g.logger.Debug("Connection started",
		zap.String("gesture_id", g.id),
		zap.String("node_id", p.NodeID),
		zap.String("handle_id", p.HandleID),
		zap.String("handle_type", string(handleType)),
	)
	if p.OnConnectStart != nil {
		p.OnConnectStart(p.Event, StartInfo{NodeID: p.NodeID, HandleID: p.HandleID, HandleType: handleType})
	}

	detach := c.host.Listen(g)
	g.mu.Lock()
	if g.state != StateDragging {
		// Ended while the listener was attaching.
		g.mu.Unlock()
		detach()
		return g, true
	}
	g.detach = detach
	g.mu.Unlock()
	return g, true
}

// candidate is the result of checking the element under the pointer.
type candidate struct {
	element    Element
	connection edge.Connection
	hovering   bool
	valid      bool
	origin     bool
}

// check builds the candidate connection for the element below ev. Dragging
// from a target makes the hovered handle the source, and the other way
// round.
func check(host Host, ev PointerEvent, mode store.ConnectionMode, p StartParams) candidate {
	below := host.ElementFromPoint(ev.ClientX, ev.ClientY)
	if !isHandle(below) {
		return candidate{}
	}

	belowIsTarget := below.HasClass(ClassTarget)
	belowIsSource := below.HasClass(ClassSource)
	nodeID, _ := below.Attribute(AttrNodeID)
	handleID, _ := below.Attribute(AttrHandleID)

	res := candidate{element: below, hovering: true}
	if p.IsTarget {
		res.connection = edge.Connection{Source: nodeID, SourceHandle: handleID, Target: p.NodeID, TargetHandle: p.HandleID}
	} else {
		res.connection = edge.Connection{Source: p.NodeID, SourceHandle: p.HandleID, Target: nodeID, TargetHandle: handleID}
	}
	res.origin = nodeID == p.NodeID && handleID == p.HandleID && belowIsTarget == p.IsTarget

	allowed := true
	if mode != store.ConnectionLoose {
		allowed = (p.IsTarget && belowIsSource) || (!p.IsTarget && belowIsTarget)
	}
	if allowed && !res.origin {
		res.valid = p.IsValidConnection(res.connection)
	}
	return res
}
