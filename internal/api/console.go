package api

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/craftdeck/craftdeck/internal/console"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ConsoleHandler streams console batches over a WebSocket and feeds
// inbound messages to the server as commands.
type ConsoleHandler struct {
	hub *console.Hub
	sup *console.Supervisor
}

func NewConsoleHandler(hub *console.Hub, sup *console.Supervisor) *ConsoleHandler {
	return &ConsoleHandler{hub: hub, sup: sup}
}

func (h *ConsoleHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// Replay the transcript so far, then follow live batches.
	for _, batch := range h.hub.History() {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(batch)); err != nil {
			return
		}
	}

	sub := h.hub.Subscribe(16)
	defer h.hub.Unsubscribe(sub)

	// Read from WebSocket -> server stdin
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if cmd := string(msg); cmd != "" {
				h.sup.SendCommand(cmd)
			}
		}
	}()

	for {
		select {
		case batch, ok := <-sub:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(batch)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
