package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
	"github.com/VGOWTHAM55/chat-web/internal/observability"
)

// Frame is the wire payload exchanged over a live connection, in both
// directions. History carries timestamps; the live path does not.
type Frame struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// FrameSink receives each frame after its fan-out completes, for
// best-effort persistence. Enqueue must never block.
type FrameSink interface {
	Enqueue(Frame)
}

// PresenceListener observes connections going online and offline.
// active is the size of the live set after the transition; zero on an
// Offline call means the relay has no observers left.
type PresenceListener interface {
	Online(conn *domain.Connection, active int)
	Offline(conn *domain.Connection, active int)
}

// Hub owns the set of live connections and serializes every publish into a
// single global order. All mutation of the client set happens on the Run
// goroutine; other components only send on the hub's channels.
type Hub struct {
	clients map[*Client]bool

	publish    chan Frame
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	sink     FrameSink
	listener PresenceListener
}

// NewHub creates a new Hub. sink and listener may be nil.
func NewHub(sink FrameSink, listener PresenceListener) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		publish:    make(chan Frame, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		sink:       sink,
		listener:   listener,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			slog.Info("hub shutting down gracefully")
			return ctx.Err()

		case client := <-h.register:
			h.clients[client] = true
			if err := client.info.Transition(domain.StateOpen); err != nil {
				slog.Warn("connection opened in unexpected state",
					slog.String("connection_id", client.info.ID),
					slog.String("error", err.Error()))
			}
			observability.ConnectionsActive.Inc()
			slog.Info("client registered",
				slog.String("connection_id", client.info.ID))
			if h.listener != nil {
				h.listener.Online(client.info, len(h.clients))
			}

		case client := <-h.unregister:
			h.unregisterClient(client)

		case frame := <-h.publish:
			h.fanOut(frame)
			if h.sink != nil {
				h.sink.Enqueue(frame)
			}
		}
	}
}

// fanOut delivers a frame to every live connection, the publisher's own
// included. A full send buffer drops that client rather than stalling
// delivery to the rest.
func (h *Hub) fanOut(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to marshal frame",
			slog.String("error", err.Error()),
			slog.String("sender", frame.Sender))
		return
	}

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			slog.Warn("client send buffer full, dropping connection",
				slog.String("connection_id", client.info.ID))
			observability.ClientsDropped.Inc()
			h.removeClient(client)
		}
	}

	observability.MessagesBroadcast.Inc()
}

// unregisterClient safely removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	h.removeClient(client)
	slog.Info("client unregistered",
		slog.String("connection_id", client.info.ID))
}

// removeClient drops a client from the live set and closes it out.
// Must only be called from the Run goroutine.
func (h *Hub) removeClient(client *Client) {
	delete(h.clients, client)
	client.closeSend()
	if err := client.info.Transition(domain.StateClosed); err == nil {
		observability.ConnectionsActive.Dec()
		if h.listener != nil {
			h.listener.Offline(client.info, len(h.clients))
		}
	}
}

// shutdown performs graceful cleanup of all connections
func (h *Hub) shutdown() {
	close(h.done)

	for client := range h.clients {
		h.removeClient(client)
		slog.Info("closed client connection",
			slog.String("connection_id", client.info.ID))
	}

	slog.Info("hub shutdown complete")
}

// Publish submits a frame for ordered fan-out to all live connections,
// followed by a best-effort append to the history sink. Fire-and-forget:
// there is no delivery or persistence acknowledgment. After shutdown the
// frame is discarded.
func (h *Hub) Publish(frame Frame) {
	select {
	case h.publish <- frame:
	case <-h.done:
	}
}

// Register adds a client to the live set
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the live set
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
