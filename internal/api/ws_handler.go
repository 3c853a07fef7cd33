package api

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	ws "github.com/momo-assistant/backend/internal/websocket"
)

// WebSocketHandler handles the /ws endpoint for inbox refresh notifications.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The server only listens for the local UI; all origins are allowed.
		return true
	},
}

// Handle upgrades the HTTP connection to a WebSocket and registers it with
// the Hub. The connection is read-only for the client; incoming frames are
// discarded until the connection closes.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocketHandler: upgrade failed: %v", err)
		return
	}

	client := h.hub.Register(conn)
	if client == nil {
		return
	}

	go func() {
		defer h.hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
