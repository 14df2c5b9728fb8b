package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Registry tracks the active streaming sessions and fans events out to
// them. It owns the session set for broadcast purposes only; the transport
// underneath each session belongs to its handler.
type Registry struct {
	mu       sync.RWMutex
	sessions map[Conn]struct{}

	logger *zap.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[Conn]struct{}),
		logger:   logger,
	}
}

// Register adds a session to the active set.
func (r *Registry) Register(s Conn) {
	r.mu.Lock()
	r.sessions[s] = struct{}{}
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Debug("session registered", zap.Int("active", count))
}

// Unregister removes a session if present. Idempotent: removing a session
// twice, or one that was never registered, is a no-op.
func (r *Registry) Unregister(s Conn) {
	r.mu.Lock()
	delete(r.sessions, s)
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Debug("session unregistered", zap.Int("active", count))
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast delivers payload to every session registered at call time.
// Delivery is best-effort: a failed send drops only that session, which is
// unregistered and closed, and never aborts delivery to the rest. The set
// is snapshotted first so sessions may unregister concurrently while the
// fan-out is in flight.
func (r *Registry) Broadcast(payload []byte) {
	r.mu.RLock()
	snapshot := make([]Conn, 0, len(r.sessions))
	for s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		if err := s.Send(payload); err != nil {
			r.logger.Debug("dropping session after failed send", zap.Error(err))
			r.Unregister(s)
			_ = s.Close()
		}
	}
}
