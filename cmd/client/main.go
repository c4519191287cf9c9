package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/bhavjitChauhan/liveboard/internal/protocol"
	"github.com/bhavjitChauhan/liveboard/internal/stroke"
)

var (
	addr         = flag.String("addr", "localhost:8080", "http service address")
	traceCursors = flag.Bool("trace-cursors", false, "print smoothed stroke segments for remote cursors")
)

// traceCanvas prints the segments a remote stroke tracker emits, standing
// in for a real rendering surface.
type traceCanvas struct{}

func (traceCanvas) DrawLine(from, to stroke.Point) {
	fmt.Printf("[stroke] line (%.1f,%.1f) -> (%.1f,%.1f)\n", from.X, from.Y, to.X, to.Y)
}

func (traceCanvas) DrawQuadratic(from, control, to stroke.Point) {
	fmt.Printf("[stroke] curve (%.1f,%.1f) ~(%.1f,%.1f)~ (%.1f,%.1f)\n",
		from.X, from.Y, control.X, control.Y, to.X, to.Y)
}

// noopCanvas discards segments; the tracker state machine still runs so
// remote strokes open and close correctly.
type noopCanvas struct{}

func (noopCanvas) DrawLine(from, to stroke.Point)               {}
func (noopCanvas) DrawQuadratic(from, control, to stroke.Point) {}

func main() {
	flag.Parse()

	username := getUsername()

	conn := connectWebSocket()
	defer conn.Close()

	// OS interrupt signals
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	var joined atomic.Bool

	// Claim the display name; the server confirms or stays silent.
	if err := conn.WriteJSON(protocol.NewUsernameMessage(username)); err != nil {
		log.Fatalf("Failed to send username claim: %v", err)
	}

	done := make(chan struct{})
	go readMessages(conn, done, &joined)

	fmt.Println("Write Messages (Press Enter to Send):")
	writeMessages(conn, interrupt, done, &joined)
}

func getUsername() string {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Enter your username: ")
	scanner.Scan()
	return scanner.Text()
}

func connectWebSocket() *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to WebSocket server: %v", err)
	}
	log.Println("Connected to WebSocket server.")
	return conn
}

func readMessages(conn *websocket.Conn, done chan struct{}, joined *atomic.Bool) {
	defer close(done)

	var canvas stroke.Canvas = noopCanvas{}
	if *traceCursors {
		canvas = traceCanvas{}
	}
	board := stroke.NewBoard(canvas)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message: %v", err)
			return
		}

		msg, err := protocol.Parse(data)
		if err != nil {
			log.Printf("Dropping message: %v", err)
			continue
		}

		switch m := msg.(type) {
		case protocol.ConfirmMessage:
			joined.Store(true)
			fmt.Printf("Joined as %s. %s\n", m.User, protocol.FormatUsers(m.Users))
		case protocol.PresenceMessage:
			fmt.Println(protocol.FormatPresence(m.User, m.Status))
		case protocol.UsersMessage:
			fmt.Println(protocol.FormatUsers(m.Users))
		case protocol.ChatMessage:
			fmt.Println(protocol.FormatChatMessage(m))
		case protocol.CursorMessage:
			board.HandleCursor(m)
		}
	}
}

func writeMessages(conn *websocket.Conn, interrupt chan os.Signal, done chan struct{}, joined *atomic.Bool) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection...")
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Printf("Error during close: %v", err)
			}
			return
		default:
			if scanner.Scan() {
				content := scanner.Text()
				if content == "" {
					continue
				}
				if !joined.Load() {
					fmt.Println("Still joining; message not sent.")
					continue
				}

				// The server rebuilds the user field from the
				// session; it is sent only to satisfy the schema.
				err := conn.WriteJSON(protocol.NewChatMessage("client", content))
				if err != nil {
					log.Printf("Error sending message: %v", err)
					return
				}
			}
		}
	}
}
