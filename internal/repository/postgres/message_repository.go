package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
)

// MessageRepository implements domain.MessageStore for PostgreSQL.
// The messages table is append-only: no statement here updates or deletes.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new PostgreSQL message repository
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// EnsureSchema creates the messages table if it does not exist
func (r *MessageRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			sender TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return wrapUnavailable("failed to ensure messages schema", err)
	}
	return nil
}

// Append inserts a message, letting the database clock assign created_at,
// and returns the stored record.
func (r *MessageRepository) Append(ctx context.Context, sender, text string) (*domain.Message, error) {
	query := `
		INSERT INTO messages (sender, text)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	msg := &domain.Message{Sender: sender, Text: text}
	err := r.db.QueryRowContext(ctx, query, sender, text).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, wrapUnavailable("failed to append message", err)
	}
	return msg, nil
}

// Recent retrieves up to limit messages ordered by timestamp, oldest first.
// This is a cap on the front of the log, not a "latest N" window: once more
// than limit messages exist, it keeps returning the earliest ones.
func (r *MessageRepository) Recent(ctx context.Context, limit int) ([]*domain.Message, error) {
	query := `
		SELECT id, sender, text, created_at
		FROM messages
		ORDER BY created_at ASC, id ASC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, wrapUnavailable("failed to query messages", err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0, limit)
	for rows.Next() {
		msg := &domain.Message{}
		if err := rows.Scan(&msg.ID, &msg.Sender, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
