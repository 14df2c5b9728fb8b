// Package ws implements the streaming side of the service: websocket
// sessions, the broadcast registry, and the per-session keepalive loop.
package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the registry's view of a streaming session: something that can
// accept an encoded event and be closed. *Session implements it; tests
// substitute stubs.
type Conn interface {
	Send(payload []byte) error
	Close() error
}

// Session wraps one websocket connection. The connection handle itself is
// the session's identity; there is no separate ID. Writes are serialized
// because gorilla/websocket permits only one concurrent writer.
type Session struct {
	conn *websocket.Conn

	writeMu      sync.Mutex
	writeTimeout time.Duration
}

const defaultWriteTimeout = 10 * time.Second

// NewSession wraps an upgraded websocket connection.
func NewSession(conn *websocket.Conn) *Session {
	return &Session{conn: conn, writeTimeout: defaultWriteTimeout}
}

// Send delivers one text frame to the client.
func (s *Session) Send(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close tears down the underlying connection. Safe to call after a failed
// send; repeated closes return an error from the transport which callers
// ignore.
func (s *Session) Close() error {
	return s.conn.Close()
}
