package websocket

import (
	"fmt"
	"sync"

	"github.com/bhavjitChauhan/liveboard/internal/port"
	"github.com/bhavjitChauhan/liveboard/internal/protocol"
	"github.com/bhavjitChauhan/liveboard/pkg/logger"
	"github.com/bhavjitChauhan/liveboard/service"
)

type inboundFrame struct {
	sess  *Session
	frame []byte
}

// Hub owns every live session and drives the relay policy from a single
// sequential loop: each inbound event is handled to completion before the
// next, so registry claims and cursor bookkeeping need no further locking.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]bool

	Register   chan *Session
	Unregister chan *Session
	inbound    chan inboundFrame
	done       chan struct{}

	board  service.BoardService
	logger logger.Logger
}

// NewHub subscribes to both audience topics on the bus; incoming
// envelopes fan out to every local session except the excluded one.
func NewHub(board service.BoardService, b port.Bus, logg logger.Logger) (*Hub, error) {
	h := &Hub{
		sessions:   make(map[*Session]bool),
		Register:   make(chan *Session),
		Unregister: make(chan *Session),
		inbound:    make(chan inboundFrame, 64),
		done:       make(chan struct{}),
		board:      board,
		logger:     logg,
	}

	for _, topic := range []string{protocol.TopicChat, protocol.TopicCursors} {
		if err := b.Subscribe(topic, h.deliver); err != nil {
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}
	return h, nil
}

// Run is the hub's main loop. It must be the only goroutine invoking the
// board service.
func (h *Hub) Run() {
	for {
		select {
		case sess := <-h.Register:
			h.addSession(sess)
			h.board.Connected(sess)
		case sess := <-h.Unregister:
			// A session may unregister twice (read pump teardown
			// racing Close); only the first removal reaches the
			// board service.
			if h.removeSession(sess) {
				h.board.Disconnected(sess)
			}
		case in := <-h.inbound:
			h.board.HandleMessage(in.sess, in.frame)
		case <-h.done:
			return
		}
	}
}

// Close stops the loop and tears down every session.
func (h *Hub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for sess := range h.sessions {
		sess.closeSend()
		sess.ws.Close()
		delete(h.sessions, sess)
	}
}

func (h *Hub) addSession(sess *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[sess] = true
}

func (h *Hub) removeSession(sess *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.sessions[sess]; !exists {
		return false
	}
	delete(h.sessions, sess)
	sess.closeSend()
	return true
}

// deliver fans one envelope out to the local members of its audience.
// Sends are non-blocking: a slow consumer loses frames rather than
// stalling everyone else.
func (h *Hub) deliver(env port.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sess := range h.sessions {
		if sess.ID() == env.Exclude {
			continue
		}
		sess.Send(env.Data)
	}
}
