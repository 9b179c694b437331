// Package store implements the graph state store of the flow canvas.
//
// PURPOSE: Holds the canonical snapshot (nodes, edges, viewport, selection,
// zoom bounds, connection in progress) and exposes the actions that change it.
//
// ROLE: Every action runs the same cycle. It copies the current snapshot,
// computes change records through the diff engine, hands them to the
// collection's mode strategy, swaps in the next snapshot and publishes exactly
// one Event. Subscribers, change callbacks and pan/zoom commands run after the
// store lock is released, so any of them may call back into the store.
package store

import (
	"sync"

	"go.uber.org/zap"

	"flowcanvas/internal/domain/changes"
)

// NodesChangeFunc receives node change records.
type NodesChangeFunc func([]changes.NodeChange)

// EdgesChangeFunc receives edge change records.
type EdgesChangeFunc func([]changes.EdgeChange)

// Store is the mutable, observable container of one canvas.
type Store struct {
	mu       sync.Mutex
	state    State
	settings Settings

	onNodesChange NodesChangeFunc
	onEdgesChange EdgesChangeFunc

	subMu       sync.Mutex
	subscribers []subscriber
	nextSub     uint64

	logger *zap.Logger
}

// New creates a store configured by settings.
func New(settings Settings, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:    initialState(settings),
		settings: settings,
		logger:   logger,
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every published Event and returns a function
// that removes it. fn runs synchronously on the goroutine that ran the action.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// SetOnNodesChange registers the node change callback. In controlled mode it
// is the only place node change records go.
func (s *Store) SetOnNodesChange(fn NodesChangeFunc) {
	s.update("setOnNodesChange", func(*txn) {
		s.onNodesChange = fn
	})
}

// SetOnEdgesChange registers the edge change callback.
func (s *Store) SetOnEdgesChange(fn EdgesChangeFunc) {
	s.update("setOnEdgesChange", func(*txn) {
		s.onEdgesChange = fn
	})
}

// Reset restores the configuration the store was created with: empty graph,
// initial bounds, no selection, no callbacks and no pan/zoom capability.
func (s *Store) Reset() {
	s.update("reset", func(tx *txn) {
		tx.next = initialState(s.settings)
		s.onNodesChange = nil
		s.onEdgesChange = nil
	})
}

// ============================================================================
// ACTION CYCLE
// ============================================================================

type subscriber struct {
	id uint64
	fn func(Event)
}

// txn is the working set of one action.
type txn struct {
	action      string
	next        State
	nodeChanges []changes.NodeChange
	edgeChanges []changes.EdgeChange
	effects     []func()
}

func (tx *txn) effect(fn func()) {
	tx.effects = append(tx.effects, fn)
}

// update runs fn against a copy of the current snapshot, commits the result
// and then, outside the lock, publishes the event, forwards change records
// and runs the queued effects in that order.
func (s *Store) update(action string, fn func(tx *txn)) txn {
	s.mu.Lock()
	tx := txn{action: action, next: s.state}
	fn(&tx)
	s.state = tx.next
	onNodes, onEdges := s.onNodesChange, s.onEdgesChange
	s.mu.Unlock()

	if len(tx.nodeChanges) > 0 || len(tx.edgeChanges) > 0 {
		s.logger.Debug("Store action produced changes",
			zap.String("action", action),
			zap.Int("node_changes", len(tx.nodeChanges)),
			zap.Int("edge_changes", len(tx.edgeChanges)),
		)
	}

	s.publish(Event{
		Action:      action,
		State:       tx.next,
		NodeChanges: tx.nodeChanges,
		EdgeChanges: tx.edgeChanges,
	})

	if len(tx.nodeChanges) > 0 {
		if onNodes != nil {
			onNodes(tx.nodeChanges)
		} else if tx.next.NodeMode == ModeControlled {
			s.logger.Debug("Dropping node changes, no owner registered",
				zap.String("action", action),
				zap.Int("count", len(tx.nodeChanges)),
			)
		}
	}
	if len(tx.edgeChanges) > 0 {
		if onEdges != nil {
			onEdges(tx.edgeChanges)
		} else if tx.next.EdgeMode == ModeControlled {
			s.logger.Debug("Dropping edge changes, no owner registered",
				zap.String("action", action),
				zap.Int("count", len(tx.edgeChanges)),
			)
		}
	}

	for _, eff := range tx.effects {
		eff()
	}
	return tx
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	subs := s.subscribers
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
