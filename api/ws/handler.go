package ws

import (
	"net/http"

	gws "github.com/gorilla/websocket"

	"github.com/bhavjitChauhan/liveboard/internal/websocket"
	"github.com/bhavjitChauhan/liveboard/pkg/logger"
)

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; restrict in production.
	},
}

// HandleWebSocket upgrades the connection, assigns the session its
// identity, and registers it with the hub. The session enters the board
// anonymous; its name is claimed later over the wire.
func HandleWebSocket(hub *websocket.Hub, logg logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logg.Errorf("Upgrade error: %v", err)
			return
		}

		sess := websocket.NewSession(conn, hub, logg)
		hub.Register <- sess
		logg.Infof("New connection from %s (session=%s)", conn.RemoteAddr(), sess.ID())

		go sess.WritePump()
		go sess.ReadPump()
	}
}
