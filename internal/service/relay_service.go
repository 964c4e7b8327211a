package service

import (
	"context"
	"fmt"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
	"github.com/VGOWTHAM55/chat-web/internal/observability"
)

const (
	// HistoryLimit caps the backfill snapshot served to a joining client
	HistoryLimit = 100

	// MaxTextLen bounds the message body
	MaxTextLen = 1000
)

// RelayService validates submissions and serves history snapshots on top
// of the message store.
type RelayService struct {
	store domain.MessageStore
}

// NewRelayService creates a new RelayService
func NewRelayService(store domain.MessageStore) *RelayService {
	return &RelayService{store: store}
}

// Validate checks a submission. An empty sender is rejected; empty text is
// accepted and relayed as-is, since trimming is the submitting client's job.
func (s *RelayService) Validate(sender, text string) error {
	if sender == "" {
		return fmt.Errorf("%w: sender must not be empty", domain.ErrInvalidInput)
	}
	if len(text) > MaxTextLen {
		return fmt.Errorf("%w: text exceeds %d bytes", domain.ErrInvalidInput, MaxTextLen)
	}
	return nil
}

// Save validates and persists a message without any fan-out. Used by the
// REST submission path.
func (s *RelayService) Save(ctx context.Context, sender, text string) (*domain.Message, error) {
	if err := s.Validate(sender, text); err != nil {
		return nil, err
	}
	return s.store.Append(ctx, sender, text)
}

// History returns the bounded backfill snapshot: the chronologically
// earliest messages, ascending, capped at HistoryLimit. One call per
// joining client; no paging or cursors.
func (s *RelayService) History(ctx context.Context) ([]*domain.Message, error) {
	messages, err := s.store.Recent(ctx, HistoryLimit)
	if err != nil {
		return nil, err
	}
	observability.HistorySnapshots.Inc()
	return messages, nil
}
