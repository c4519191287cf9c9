// Package service implements the relay policy: the join protocol, chat
// rules, and cursor re-stamping that sit between raw websocket frames and
// audience fan-out.
package service

import (
	"slices"
	"unicode/utf8"

	"github.com/bhavjitChauhan/liveboard/config"
	"github.com/bhavjitChauhan/liveboard/internal/port"
	"github.com/bhavjitChauhan/liveboard/internal/protocol"
	"github.com/bhavjitChauhan/liveboard/pkg/logger"
)

// BoardService handles the lifecycle and inbound traffic of one session.
// The hub invokes every method from its single sequential loop, so the
// registry's check-then-insert and the cursor bookkeeping never race.
type BoardService interface {
	Connected(peer port.Peer)
	HandleMessage(peer port.Peer, frame []byte)
	Disconnected(peer port.Peer)
}

type cursorState struct {
	x, y    float64
	drawing bool
}

type boardService struct {
	registry port.Registry
	bus      port.Bus
	logger   logger.Logger

	blacklist   []string
	maxUsername int
	maxMessage  int

	// last relayed cursor per session, kept to close strokes of peers
	// that disconnect mid-draw. Mutated only on the hub loop.
	cursors map[string]cursorState
}

func NewBoardService(reg port.Registry, bus port.Bus, cfg config.Config, logg logger.Logger) BoardService {
	return &boardService{
		registry:    reg,
		bus:         bus,
		logger:      logg,
		blacklist:   cfg.UsernameBlacklist,
		maxUsername: cfg.MaxUsernameLength,
		maxMessage:  cfg.MaxMessageLength,
		cursors:     make(map[string]cursorState),
	}
}

// Connected unicasts the current user list to a freshly opened session so
// a late joiner sees existing participants without waiting for presence.
func (s *boardService) Connected(peer port.Peer) {
	users, err := s.registry.List()
	if err != nil {
		s.logger.Errorf("Failed to list users for %s: %v", peer.ID(), err)
	}
	s.unicast(peer, protocol.NewUsersMessage(users))
	s.logger.Infof("Session %s connected", peer.ID())
}

func (s *boardService) HandleMessage(peer port.Peer, frame []byte) {
	msg, err := protocol.Parse(frame)
	if err != nil {
		s.logger.Warnf("Dropping frame from %s: %v", peer.ID(), err)
		return
	}

	switch m := msg.(type) {
	case protocol.CursorMessage:
		s.handleCursor(peer, m)
	case protocol.UsernameMessage:
		s.handleUsername(peer, m)
	case protocol.ChatMessage:
		s.handleChat(peer, m)
	default:
		// users/presence/confirm originate on the server only.
		s.logger.Warnf("Dropping server-only %s message from %s", msg.Kind(), peer.ID())
	}
}

// handleCursor re-stamps the message with the sender's session identity
// and fans it out to everyone else. A client-declared id is never trusted.
func (s *boardService) handleCursor(peer port.Peer, m protocol.CursorMessage) {
	s.cursors[peer.ID()] = cursorState{x: m.X, y: m.Y, drawing: m.IsDrawing}
	s.publish(protocol.TopicCursors, peer.ID(), protocol.NewCursorMessage(peer.ID(), m.X, m.Y, m.IsDrawing))
}

func (s *boardService) handleUsername(peer port.Peer, m protocol.UsernameMessage) {
	if peer.Username() != "" {
		// Renaming is not a defined transition.
		s.logger.Debugf("Ignoring username change from %s", peer.Username())
		return
	}

	name := m.Username
	if slices.Contains(s.blacklist, name) {
		s.logger.Warnf("Rejected reserved username: %s", name)
		return
	}
	if utf8.RuneCountInString(name) > s.maxUsername {
		s.logger.Warnf("Rejected too long username: %s", name)
		return
	}

	claimed, err := s.registry.TryClaim(name)
	if err != nil {
		s.logger.Errorf("Failed to claim username %s: %v", name, err)
		return
	}
	if !claimed {
		s.logger.Warnf("Rejected taken username: %s", name)
		return
	}

	peer.SetUsername(name)
	users, err := s.registry.List()
	if err != nil {
		s.logger.Errorf("Failed to list users: %v", err)
	}

	s.unicast(peer, protocol.NewConfirmMessage(users, name))
	s.publish(protocol.TopicChat, peer.ID(), protocol.NewPresenceMessage(users, name, protocol.StatusJoin))
	s.logger.Infof("%s joined", name)
}

func (s *boardService) handleChat(peer port.Peer, m protocol.ChatMessage) {
	username := peer.Username()
	if username == "" {
		s.logger.Warnf("Dropping chat from anonymous session %s", peer.ID())
		return
	}
	if utf8.RuneCountInString(m.Message) > s.maxMessage {
		s.logger.Warnf("Dropping too long chat message from %s", username)
		return
	}

	// Rebuilt with the bound username; the sender stays in the audience
	// and renders its own line from the echo.
	s.publish(protocol.TopicChat, "", protocol.NewChatMessage(username, m.Message))
	s.logger.Infof("<%s> %s", username, m.Message)
}

// Disconnected releases the session's name, announces the leave, and
// force-closes any stroke the peer left open by synthesizing a terminal
// cursor frame at its last relayed position.
func (s *boardService) Disconnected(peer port.Peer) {
	if st, ok := s.cursors[peer.ID()]; ok {
		if st.drawing {
			s.publish(protocol.TopicCursors, peer.ID(), protocol.NewCursorMessage(peer.ID(), st.x, st.y, false))
		}
		delete(s.cursors, peer.ID())
	}

	name := peer.Username()
	if name == "" {
		s.logger.Infof("Session %s disconnected", peer.ID())
		return
	}

	if err := s.registry.Release(name); err != nil {
		s.logger.Errorf("Failed to release username %s: %v", name, err)
	}
	// Unbind so a duplicated teardown cannot announce a second leave.
	peer.SetUsername("")
	users, err := s.registry.List()
	if err != nil {
		s.logger.Errorf("Failed to list users: %v", err)
	}

	s.publish(protocol.TopicChat, peer.ID(), protocol.NewPresenceMessage(users, name, protocol.StatusLeave))
	s.logger.Infof("%s left", name)
}

func (s *boardService) unicast(peer port.Peer, msg protocol.Message) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Errorf("Failed to encode %s message: %v", msg.Kind(), err)
		return
	}
	peer.Send(frame)
}

func (s *boardService) publish(topic, exclude string, msg protocol.Message) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Errorf("Failed to encode %s message: %v", msg.Kind(), err)
		return
	}
	if err := s.bus.Publish(port.Envelope{Topic: topic, Exclude: exclude, Data: frame}); err != nil {
		s.logger.Errorf("Failed to publish to %s: %v", topic, err)
	}
}
