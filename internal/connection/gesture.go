package connection

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"flowcanvas/internal/domain/geometry"
	"flowcanvas/internal/domain/node"
	"flowcanvas/internal/store"
)

// State is the phase of a gesture.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "idle"
	}
}

// Gesture is one connection drag. Its fields are the whole per-gesture
// state: origin, container bounds and the handle hovered on the last tick.
type Gesture struct {
	id       string
	store    *store.Store
	host     Host
	observer Observer
	logger   *zap.Logger

	params     StartParams
	mode       store.ConnectionMode
	handleType node.HandleType
	container  geometry.Rect
	started    time.Time

	mu      sync.Mutex
	state   State
	hovered Element
	detach  func()
}

// ID identifies the gesture in logs.
func (g *Gesture) ID() string { return g.id }

// HandleType is the role the gesture started from.
func (g *Gesture) HandleType() node.HandleType { return g.handleType }

// State returns the current phase.
func (g *Gesture) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Hovered returns the element currently carrying the hover markers.
func (g *Gesture) Hovered() Element {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hovered
}

func (g *Gesture) local(ev PointerEvent) geometry.XYPosition {
	return geometry.XYPosition{X: ev.ClientX - g.container.X, Y: ev.ClientY - g.container.Y}
}

// Move implements Listener. It tracks the pointer and refreshes the markers
// on the handle below it. The host and the validator are consulted without
// the gesture lock held, so either may call back into the gesture.
func (g *Gesture) Move(ev PointerEvent) {
	if g.State() != StateDragging {
		return
	}

	res := check(g.host, ev, g.mode, g.params)

	g.mu.Lock()
	if g.state != StateDragging {
		// Ended while the validator ran.
		g.mu.Unlock()
		return
	}
	clearMarkers(g.hovered)
	g.hovered = nil
	if res.hovering && !res.connection.IsSelfLoop() {
		res.element.AddClass(MarkerConnecting)
		res.element.ToggleClass(MarkerValid, res.valid)
		g.hovered = res.element
	}
	g.mu.Unlock()

	g.store.UpdateConnectionPosition(g.local(ev))
}

// Release implements Listener. It re-checks the handle under the release
// point and, if the connection is valid, hands it to OnConnect.
func (g *Gesture) Release(ev PointerEvent) {
	if !g.finish() {
		return
	}

	res := check(g.host, ev, g.mode, g.params)
	p := g.params

	if p.OnConnectStop != nil {
		p.OnConnectStop(ev)
	}
	if res.valid && p.OnConnect != nil {
		p.OnConnect(res.connection)
	}
	if p.OnConnectEnd != nil {
		p.OnConnectEnd(ev)
	}
	if p.EdgeUpdaterType != "" && p.OnEdgeUpdateEnd != nil {
		p.OnEdgeUpdateEnd(ev)
	}

	outcome := OutcomeVetoed
	state := StateAborted
	if res.valid {
		outcome, state = OutcomeCommitted, StateCommitted
	}
	g.settle(state, outcome,
		zap.String("source", res.connection.Source),
		zap.String("target", res.connection.Target),
	)
}

// Cancel aborts the gesture without notifying the owner. It is a no-op once
// the gesture has ended.
func (g *Gesture) Cancel() {
	if !g.finish() {
		return
	}
	g.settle(StateAborted, OutcomeCancelled)
}

// finish claims the right to end the gesture. Exactly one caller wins.
func (g *Gesture) finish() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateDragging {
		return false
	}
	// Terminal until settle picks the final state.
	g.state = StateAborted
	return true
}

// settle releases everything the gesture holds: markers, store fields and
// listeners.
func (g *Gesture) settle(state State, outcome Outcome, fields ...zap.Field) {
	g.mu.Lock()
	g.state = state
	clearMarkers(g.hovered)
	g.hovered = nil
	detach := g.detach
	g.detach = nil
	g.mu.Unlock()

	g.store.EndConnection()
	if detach != nil {
		detach()
	}

	elapsed := time.Since(g.started)
	if g.observer != nil {
		g.observer.GestureFinished(outcome, elapsed)
	}
	g.logger.Debug("Connection finished",
		append([]zap.Field{
			zap.String("gesture_id", g.id),
			zap.String("outcome", string(outcome)),
			zap.Duration("elapsed", elapsed),
		}, fields...)...,
	)
}
