package ws

import (
	"context"
	"net/http"

	"github.com/bhavjitChauhan/liveboard/internal/websocket"
	"github.com/bhavjitChauhan/liveboard/pkg/logger"
)

type WSConfig struct {
	Hub     *websocket.Hub
	RootCtx context.Context
}

func SetupWebSocketRoutes(cfg WSConfig) http.Handler {
	mux := http.NewServeMux()
	log := logger.FromContext(cfg.RootCtx).WithModule("websocket")
	mux.HandleFunc("/ws", HandleWebSocket(cfg.Hub, log))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello world!"))
	})
	return mux
}
