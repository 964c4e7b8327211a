package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
	"github.com/VGOWTHAM55/chat-web/internal/testutil"
)

func TestPersister_AppendsInEnqueueOrder(t *testing.T) {
	store := testutil.NewMockMessageStore()
	p := NewPersister(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	for i := 0; i < 20; i++ {
		p.Enqueue(Frame{Sender: "alice", Text: fmt.Sprintf("m%d", i)})
	}

	ok := testutil.WaitFor(2*time.Second, func() bool {
		return len(store.Stored()) == 20
	})
	if !ok {
		t.Fatalf("stored %d messages, want 20", len(store.Stored()))
	}

	for i, msg := range store.Stored() {
		if want := fmt.Sprintf("m%d", i); msg.Text != want {
			t.Errorf("stored message %d = %q, want %q", i, msg.Text, want)
		}
	}
}

func TestPersister_SwallowsStoreFailures(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	store := testutil.NewMockMessageStore()
	store.AppendFunc = func(ctx context.Context, sender, text string) (*domain.Message, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil, fmt.Errorf("append: %w", domain.ErrStoreUnavailable)
	}

	p := NewPersister(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	p.Enqueue(Frame{Sender: "alice", Text: "doomed"})
	p.Enqueue(Frame{Sender: "alice", Text: "also doomed"})

	ok := testutil.WaitFor(2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	})
	if !ok {
		t.Fatal("persister stopped attempting appends after a failure")
	}
}

func TestPersister_EnqueueNeverBlocks(t *testing.T) {
	// No Run goroutine draining, so the queue fills up and further
	// enqueues must shed rather than block.
	store := testutil.NewMockMessageStore()
	p := NewPersister(store)

	done := make(chan struct{})
	go func() {
		for i := 0; i < persistQueueSize+10; i++ {
			p.Enqueue(Frame{Sender: "alice", Text: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestPersister_FlushesOnShutdown(t *testing.T) {
	store := testutil.NewMockMessageStore()
	p := NewPersister(store)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- p.Run(ctx) }()

	for i := 0; i < 10; i++ {
		p.Enqueue(Frame{Sender: "alice", Text: fmt.Sprintf("m%d", i)})
	}
	cancel()

	select {
	case err := <-errChan:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("persister did not stop")
	}

	// Everything enqueued before cancellation ends up stored
	if got := len(store.Stored()); got != 10 {
		t.Errorf("stored %d messages after flush, want 10", got)
	}
}
