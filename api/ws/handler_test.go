package ws_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavjitChauhan/liveboard/api/ws"
	"github.com/bhavjitChauhan/liveboard/config"
	"github.com/bhavjitChauhan/liveboard/internal/bus"
	"github.com/bhavjitChauhan/liveboard/internal/protocol"
	"github.com/bhavjitChauhan/liveboard/internal/registry"
	"github.com/bhavjitChauhan/liveboard/internal/websocket"
	"github.com/bhavjitChauhan/liveboard/pkg/logger"
	"github.com/bhavjitChauhan/liveboard/service"
)

type testClient struct {
	t    *testing.T
	conn *gws.Conn
}

func (c *testClient) send(msg protocol.Message) {
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *testClient) receive() protocol.Message {
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.conn.ReadMessage()
	require.NoError(c.t, err)

	msg, err := protocol.Parse(data)
	require.NoError(c.t, err)
	return msg
}

func setupServer(t *testing.T) *httptest.Server {
	cfg := config.Config{
		UsernameBlacklist: []string{"admin"},
		MaxUsernameLength: 32,
		MaxMessageLength:  512,
	}
	baseLogger := logger.NewLogger("error")
	ctx := logger.NewContext(context.Background(), baseLogger)

	b := bus.NewMemory()
	board := service.NewBoardService(registry.NewMemory(), b, cfg, baseLogger)

	hub, err := websocket.NewHub(board, b, baseLogger)
	require.NoError(t, err)
	go hub.Run()

	server := httptest.NewServer(ws.SetupWebSocketRoutes(ws.WSConfig{
		Hub:     hub,
		RootCtx: ctx,
	}))

	t.Cleanup(func() {
		server.Close()
		hub.Close()
	})
	return server
}

func connect(t *testing.T, server *httptest.Server) *testClient {
	wsURL := "ws" + server.URL[4:] + "/ws"
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn}
}

func TestJoinProtocolEndToEnd(t *testing.T) {
	server := setupServer(t)

	clientA := connect(t, server)
	users, ok := clientA.receive().(protocol.UsersMessage)
	require.True(t, ok, "first frame after connect is the user list")
	assert.Empty(t, users.Users)

	clientB := connect(t, server)
	users, ok = clientB.receive().(protocol.UsersMessage)
	require.True(t, ok)
	assert.Empty(t, users.Users)

	// A claims a name: A gets the confirm, B the presence broadcast.
	clientA.send(protocol.NewUsernameMessage("alice"))

	confirm, ok := clientA.receive().(protocol.ConfirmMessage)
	require.True(t, ok)
	assert.Equal(t, "alice", confirm.User)
	assert.Equal(t, protocol.StatusJoin, confirm.Status)
	assert.Equal(t, []string{"alice"}, confirm.Users)

	presence, ok := clientB.receive().(protocol.PresenceMessage)
	require.True(t, ok)
	assert.Equal(t, "alice", presence.User)
	assert.Equal(t, protocol.StatusJoin, presence.Status)

	// B tries the taken name, then a free one. Delivery to one session
	// is FIFO, so B's next frame being bob's confirm proves the rejected
	// claim produced no reply at all.
	clientB.send(protocol.NewUsernameMessage("alice"))
	clientB.send(protocol.NewUsernameMessage("bob"))

	confirm, ok = clientB.receive().(protocol.ConfirmMessage)
	require.True(t, ok)
	assert.Equal(t, "bob", confirm.User)
	assert.Equal(t, []string{"alice", "bob"}, confirm.Users)

	presence, ok = clientA.receive().(protocol.PresenceMessage)
	require.True(t, ok)
	assert.Equal(t, "bob", presence.User)
	assert.Equal(t, protocol.StatusJoin, presence.Status)
	assert.Equal(t, []string{"alice", "bob"}, presence.Users)
}

func TestCursorAndChatRelay(t *testing.T) {
	server := setupServer(t)

	clientA := connect(t, server)
	clientA.receive() // users
	clientA.send(protocol.NewUsernameMessage("alice"))
	clientA.receive() // confirm

	clientB := connect(t, server)
	clientB.receive() // users
	clientB.send(protocol.NewUsernameMessage("bob"))
	clientB.receive() // confirm
	clientA.receive() // bob's presence

	// B draws: A sees the sample with B's real session id, B gets no echo.
	clientB.send(protocol.NewCursorMessage("ignored", 10, 20, true))

	cursor, ok := clientA.receive().(protocol.CursorMessage)
	require.True(t, ok)
	assert.NotEqual(t, "ignored", cursor.ID, "id is overwritten server-side")
	assert.NotEmpty(t, cursor.ID)
	assert.Equal(t, 10.0, cursor.X)
	assert.Equal(t, 20.0, cursor.Y)
	assert.True(t, cursor.IsDrawing)

	// Chat fans out to both, with the server-bound name. B's next frame
	// being the chat echo proves the cursor was not echoed back to it.
	clientB.send(protocol.NewChatMessage("spoofed", "hello board"))

	for _, c := range []*testClient{clientA, clientB} {
		chat, ok := c.receive().(protocol.ChatMessage)
		require.True(t, ok)
		assert.Equal(t, "bob", chat.User)
		assert.Equal(t, "hello board", chat.Message)
	}
}

func TestDisconnectAnnouncesLeave(t *testing.T) {
	server := setupServer(t)

	clientA := connect(t, server)
	clientA.receive()
	clientA.send(protocol.NewUsernameMessage("alice"))
	clientA.receive()

	clientB := connect(t, server)
	clientB.receive()
	clientB.send(protocol.NewUsernameMessage("bob"))
	clientB.receive()
	clientA.receive()

	require.NoError(t, clientA.conn.Close())

	presence, ok := clientB.receive().(protocol.PresenceMessage)
	require.True(t, ok)
	assert.Equal(t, "alice", presence.User)
	assert.Equal(t, protocol.StatusLeave, presence.Status)
	assert.Equal(t, []string{"bob"}, presence.Users)
}

func TestDisconnectMidStrokeClosesRemoteStroke(t *testing.T) {
	server := setupServer(t)

	clientA := connect(t, server)
	clientA.receive()

	clientB := connect(t, server)
	clientB.receive()

	clientB.send(protocol.NewCursorMessage("x", 30, 40, true))
	cursor, ok := clientA.receive().(protocol.CursorMessage)
	require.True(t, ok)
	require.True(t, cursor.IsDrawing)
	peerID := cursor.ID

	require.NoError(t, clientB.conn.Close())

	closing, ok := clientA.receive().(protocol.CursorMessage)
	require.True(t, ok)
	assert.Equal(t, peerID, closing.ID)
	assert.Equal(t, 30.0, closing.X)
	assert.Equal(t, 40.0, closing.Y)
	assert.False(t, closing.IsDrawing, "relay synthesizes the pointer-up")
}
