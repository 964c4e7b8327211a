package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/VGOWTHAM55/chat-web/internal/relay"
	"github.com/VGOWTHAM55/chat-web/internal/service"
)

// WebSocketHandler upgrades HTTP requests to live relay connections
type WebSocketHandler struct {
	hub          *relay.Hub
	relayService *service.RelayService
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler creates a WebSocket handler restricted to the given
// origins ("*" allows any, for development).
func NewWebSocketHandler(hub *relay.Hub, relayService *service.RelayService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		relayService: relayService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Non-browser clients send no Origin header
					return true
				}
				for _, o := range allowedOrigins {
					if o == origin || o == "*" {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleConnection performs the upgrade handshake and starts the client
// pumps. The connection joins the fan-out set immediately; the client is
// expected to fetch its history backfill separately, exactly once.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("remote_addr", r.RemoteAddr))
		return
	}

	client := relay.NewClient(h.hub, conn, h.relayService)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
