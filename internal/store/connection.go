package store

import (
	"flowcanvas/internal/domain/geometry"
)

// StartConnection records the origin of a connection gesture.
func (s *Store) StartConnection(c ConnectionState) {
	s.update("startConnection", func(tx *txn) {
		tx.next.Connection = c
	})
}

// UpdateConnectionPosition moves the loose end of the pending connection.
func (s *Store) UpdateConnectionPosition(p geometry.XYPosition) {
	s.update("updateConnectionPosition", func(tx *txn) {
		tx.next.Connection.Position = p
	})
}

// EndConnection clears the connection-in-progress fields. The last pointer
// position is kept, as a renderer may still fade the line out from there.
func (s *Store) EndConnection() {
	s.update("endConnection", func(tx *txn) {
		tx.next.Connection = ConnectionState{Position: tx.next.Connection.Position}
	})
}
