package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cgatting/RefScore/internal/progress"
)

// Handler upgrades HTTP requests to websocket sessions, registers them for
// broadcast, and runs the keepalive loop until the client goes away.
type Handler struct {
	registry    *Registry
	idleTimeout time.Duration
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// DefaultIdleTimeout is how long a session may stay silent before it is
// pinged.
const DefaultIdleTimeout = 30 * time.Second

// NewHandler creates a websocket handler. Origins in allowedOrigins may
// open sessions; requests without an Origin header (non-browser clients)
// are always accepted.
func NewHandler(registry *Registry, allowedOrigins []string, idleTimeout time.Duration, logger *zap.Logger) *Handler {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Handler{
		registry:    registry,
		idleTimeout: idleTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// ServeHTTP performs the websocket handshake and blocks until the session
// ends. The session is registered only after a successful upgrade and
// removed exactly once, on disconnect or send failure.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	session := NewSession(conn)
	h.registry.Register(session)
	defer func() {
		h.registry.Unregister(session)
		_ = session.Close()
	}()

	activity := make(chan struct{}, 1)
	done := make(chan struct{})

	go h.keepalive(session, activity, done)
	defer close(done)

	// Read pump. Inbound frames carry no protocol; any traffic just
	// resets the idle timer.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		select {
		case activity <- struct{}{}:
		default:
		}
	}
}

// keepalive sends one ping per idle window. A window restarts on inbound
// traffic or after a ping; a failed ping ends the loop and the read pump
// notices the dead connection on its side.
func (h *Handler) keepalive(session *Session, activity <-chan struct{}, done <-chan struct{}) {
	ping := progress.NewPing().Encode()

	timer := time.NewTimer(h.idleTimeout)
	defer timer.Stop()

	for {
		select {
		case <-done:
			return
		case <-activity:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(h.idleTimeout)
		case <-timer.C:
			if err := session.Send(ping); err != nil {
				return
			}
			timer.Reset(h.idleTimeout)
		}
	}
}
