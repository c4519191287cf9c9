// Package websocket holds the transport layer of the relay: one Session
// per live connection plus the Hub that fans audience traffic out to them.
package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bhavjitChauhan/liveboard/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	maxFrameSize = 8192
	sendBuffer   = 256
)

// Session is the server-side record of one live connection: an opaque
// identity assigned at connect time and, once claimed, a display name.
type Session struct {
	id string
	ws *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool

	username string
	hub      *Hub
	logger   logger.Logger
}

// NewSession wraps an upgraded connection, assigning its session identity.
func NewSession(ws *websocket.Conn, hub *Hub, logg logger.Logger) *Session {
	return &Session{
		id:     uuid.Must(uuid.NewV7()).String(),
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		hub:    hub,
		logger: logg,
	}
}

func (s *Session) ID() string { return s.id }

// Username returns the bound display name, or "" while anonymous. It is
// only touched on the hub loop.
func (s *Session) Username() string { return s.username }

func (s *Session) SetUsername(name string) { s.username = name }

// Send enqueues a frame without blocking. Frames to a closed session or a
// full buffer are lost, which is the delivery guarantee on offer.
func (s *Session) Send(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
	}
}

func (s *Session) closeSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// ReadPump forwards raw frames to the hub loop until the connection dies.
func (s *Session) ReadPump() {
	defer func() {
		select {
		case s.hub.Unregister <- s:
		case <-s.hub.done:
		}
		s.ws.Close()
	}()

	s.ws.SetReadLimit(maxFrameSize)
	s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		s.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Errorf("Read error on %s: %v", s.id, err)
			}
			break
		}
		if msgType != websocket.TextMessage {
			s.logger.Warnf("Dropping non-text frame from %s", s.id)
			continue
		}

		select {
		case s.hub.inbound <- inboundFrame{sess: s, frame: data}:
		case <-s.hub.done:
			return
		}
	}
}

// WritePump drains the send buffer onto the wire and keeps the connection
// alive with pings.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.ws.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
