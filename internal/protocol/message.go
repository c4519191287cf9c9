// Package protocol defines the wire vocabulary of the board: a closed set
// of JSON message shapes exchanged between clients and the relay, with a
// builder and a narrowing validator for each.
package protocol

import "encoding/json"

// Kind is the mandatory `type` discriminant of every wire frame.
type Kind string

const (
	KindUsername Kind = "username"
	KindUsers    Kind = "users"
	KindPresence Kind = "presence"
	KindConfirm  Kind = "confirm"
	KindChat     Kind = "chat"
	KindCursor   Kind = "cursor"
)

// Presence status values.
const (
	StatusJoin  = "join"
	StatusLeave = "leave"
)

// Audience topics. A session subscribes to both at connect.
const (
	TopicChat    = "board.chat"
	TopicCursors = "board.cursors"
)

// Message is one decoded wire frame. The concrete type is exactly one of
// the variants below; consumers dispatch with a type switch.
type Message interface {
	Kind() Kind
}

// UsernameMessage is a client's request to claim a display name.
type UsernameMessage struct {
	Type     Kind   `json:"type"`
	Username string `json:"username"`
}

func (UsernameMessage) Kind() Kind { return KindUsername }

// UsersMessage carries the full claimed-name list, unicast to a session
// right after it connects.
type UsersMessage struct {
	Type  Kind     `json:"type"`
	Users []string `json:"users"`
}

func (UsersMessage) Kind() Kind { return KindUsers }

// PresenceMessage announces a join or leave to the chat audience, carrying
// the updated name list.
type PresenceMessage struct {
	Type   Kind     `json:"type"`
	Users  []string `json:"users"`
	User   string   `json:"user"`
	Status string   `json:"status"`
}

func (PresenceMessage) Kind() Kind { return KindPresence }

// ConfirmMessage acknowledges a successful name claim to the claiming
// session. Its shape matches PresenceMessage with status fixed to "join".
type ConfirmMessage struct {
	Type   Kind     `json:"type"`
	Users  []string `json:"users"`
	User   string   `json:"user"`
	Status string   `json:"status"`
}

func (ConfirmMessage) Kind() Kind { return KindConfirm }

// ChatMessage is one line of chat text. The relay always rebuilds the User
// field from session state; a client-declared value is never trusted.
type ChatMessage struct {
	Type    Kind   `json:"type"`
	User    string `json:"user"`
	Message string `json:"message"`
}

func (ChatMessage) Kind() Kind { return KindChat }

// CursorMessage is one pointer sample. The relay re-stamps ID with the
// sender's session identity before fan-out.
type CursorMessage struct {
	Type      Kind    `json:"type"`
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	IsDrawing bool    `json:"isDrawing"`
}

func (CursorMessage) Kind() Kind { return KindCursor }

func NewUsernameMessage(username string) UsernameMessage {
	return UsernameMessage{Type: KindUsername, Username: username}
}

func NewUsersMessage(users []string) UsersMessage {
	return UsersMessage{Type: KindUsers, Users: userList(users)}
}

func NewPresenceMessage(users []string, user, status string) PresenceMessage {
	return PresenceMessage{Type: KindPresence, Users: userList(users), User: user, Status: status}
}

func NewConfirmMessage(users []string, user string) ConfirmMessage {
	return ConfirmMessage{Type: KindConfirm, Users: userList(users), User: user, Status: StatusJoin}
}

// userList keeps `users` a JSON array even when empty.
func userList(users []string) []string {
	if users == nil {
		return []string{}
	}
	return users
}

func NewChatMessage(user, message string) ChatMessage {
	return ChatMessage{Type: KindChat, User: user, Message: message}
}

func NewCursorMessage(id string, x, y float64, isDrawing bool) CursorMessage {
	return CursorMessage{Type: KindCursor, ID: id, X: x, Y: y, IsDrawing: isDrawing}
}

// Encode marshals a message to its canonical frame.
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
