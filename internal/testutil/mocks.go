// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the chat relay.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
)

// MockMessageStore implements domain.MessageStore for testing
type MockMessageStore struct {
	mu sync.Mutex

	// Function overrides - set these to customize behavior
	AppendFunc func(ctx context.Context, sender, text string) (*domain.Message, error)
	RecentFunc func(ctx context.Context, limit int) ([]*domain.Message, error)

	// In-memory storage for simple tests
	Messages []*domain.Message

	base time.Time
}

// NewMockMessageStore creates a MockMessageStore with an empty log
func NewMockMessageStore() *MockMessageStore {
	return &MockMessageStore{base: time.Now()}
}

func (m *MockMessageStore) Append(ctx context.Context, sender, text string) (*domain.Message, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, sender, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := &domain.Message{
		ID:     fmt.Sprintf("msg-%d", len(m.Messages)+1),
		Sender: sender,
		Text:   text,
		// Strictly increasing stamps keep insertion order and chronological
		// order identical, as the real store guarantees.
		CreatedAt: m.base.Add(time.Duration(len(m.Messages)) * time.Millisecond),
	}
	m.Messages = append(m.Messages, msg)
	return msg, nil
}

func (m *MockMessageStore) Recent(ctx context.Context, limit int) ([]*domain.Message, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.Messages)
	if limit < n {
		n = limit
	}
	result := make([]*domain.Message, n)
	copy(result, m.Messages[:n])
	return result, nil
}

// Stored returns a snapshot of the appended messages in order
func (m *MockMessageStore) Stored() []*domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Message, len(m.Messages))
	copy(result, m.Messages)
	return result
}
