package domain

import (
	"context"
	"time"
)

// Message represents a chat message. Once persisted it is immutable and its
// position in the store's chronological order never changes.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageStore defines the interface for the durable append-only message log
type MessageStore interface {
	// Append persists a message, assigning CreatedAt from the server clock,
	// and returns the stored record.
	Append(ctx context.Context, sender, text string) (*Message, error)

	// Recent returns up to limit messages in ascending CreatedAt order,
	// starting from the chronologically earliest stored message.
	Recent(ctx context.Context, limit int) ([]*Message, error)
}
