package relay

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
	"github.com/VGOWTHAM55/chat-web/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // Must be less than pongWait
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client pumps frames between one WebSocket connection and the hub.
// Sender identity travels per frame, not per connection, so one client may
// relay messages for whatever name its user typed.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	info    *domain.Connection
	service *service.RelayService

	writeMu    sync.Mutex
	closed     atomic.Bool
	sendClosed atomic.Bool
}

// NewClient wraps an upgraded WebSocket connection in a Client with a fresh
// connection identity.
func NewClient(hub *Hub, conn *websocket.Conn, svc *service.RelayService) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		info: &domain.Connection{
			ID:          uuid.NewString(),
			State:       domain.StateConnecting,
			ConnectedAt: time.Now(),
		},
		service: svc,
	}
}

// Connection returns the connection's identity record
func (c *Client) Connection() *domain.Connection {
	return c.info
}

// ReadPump reads inbound frames and hands them to the hub for publication.
// It exits on any read error, which covers client-initiated close, network
// failure, and server shutdown alike.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.closeConnection()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		slog.Warn("failed to set read deadline",
			slog.String("error", err.Error()),
			slog.String("connection_id", c.info.ID))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket error",
					slog.String("error", err.Error()),
					slog.String("connection_id", c.info.ID))
			}
			break
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			slog.Warn("invalid frame format",
				slog.String("error", err.Error()),
				slog.String("connection_id", c.info.ID))
			continue
		}

		if err := c.service.Validate(frame.Sender, frame.Text); err != nil {
			slog.Warn("rejected frame",
				slog.String("error", err.Error()),
				slog.String("connection_id", c.info.ID))
			continue
		}

		// No ack back to the submitter; the echoed broadcast is all it gets.
		c.hub.Publish(frame)
	}
}

// WritePump pumps frames from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				_ = c.writeMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.writeMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.writeMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeMessage writes a message to the WebSocket connection in a thread-safe manner
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		return websocket.ErrCloseSent
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		slog.Warn("failed to set write deadline",
			slog.String("error", err.Error()),
			slog.String("connection_id", c.info.ID))
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

// closeSend closes the outbound channel exactly once. Called by the hub's
// Run goroutine.
func (c *Client) closeSend() {
	if c.sendClosed.CompareAndSwap(false, true) {
		close(c.send)
	}
}

// closeConnection safely closes the WebSocket connection
func (c *Client) closeConnection() {
	if c.closed.CompareAndSwap(false, true) {
		c.writeMu.Lock()
		c.conn.Close()
		c.writeMu.Unlock()
	}
}
