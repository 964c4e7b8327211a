package relay

import (
	"log/slog"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
)

// PresenceLogger reports connectivity transitions to the structured log,
// which is how collaborators observe the relay's online/offline signal.
type PresenceLogger struct{}

func (PresenceLogger) Online(conn *domain.Connection, active int) {
	slog.Info("connection online",
		slog.String("connection_id", conn.ID),
		slog.Int("active", active))
}

func (PresenceLogger) Offline(conn *domain.Connection, active int) {
	slog.Info("connection offline",
		slog.String("connection_id", conn.ID),
		slog.Int("active", active))
	if active == 0 {
		slog.Info("no live connections, relay observably offline")
	}
}
