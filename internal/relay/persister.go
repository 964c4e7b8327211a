package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
	"github.com/VGOWTHAM55/chat-web/internal/observability"
)

const (
	persistQueueSize = 1024
	appendTimeout    = 5 * time.Second
)

// Persister drains published frames into the message store off the fan-out
// path. A single drain goroutine keeps appends in publish order. Failures
// are logged and counted, never surfaced: durability trades off against
// availability here.
type Persister struct {
	store domain.MessageStore
	queue chan Frame
}

// NewPersister creates a persister writing to store
func NewPersister(store domain.MessageStore) *Persister {
	return &Persister{
		store: store,
		queue: make(chan Frame, persistQueueSize),
	}
}

// Enqueue hands a frame over for persistence without blocking. When the
// queue is full the frame is shed so a stalled store cannot back up into
// the hub loop.
func (p *Persister) Enqueue(frame Frame) {
	select {
	case p.queue <- frame:
	default:
		slog.Warn("persistence queue full, shedding message",
			slog.String("sender", frame.Sender))
		observability.AppendFailures.Inc()
	}
}

// Run drains the queue until ctx is cancelled, then flushes whatever is
// still buffered.
func (p *Persister) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush()
			slog.Info("persister stopped")
			return ctx.Err()
		case frame := <-p.queue:
			p.append(ctx, frame)
		}
	}
}

// append writes one frame to the store, swallowing failures
func (p *Persister) append(ctx context.Context, frame Frame) {
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), appendTimeout)
	defer cancel()

	if _, err := p.store.Append(appendCtx, frame.Sender, frame.Text); err != nil {
		slog.Error("failed to persist message",
			slog.String("error", err.Error()),
			slog.String("sender", frame.Sender))
		observability.AppendFailures.Inc()
	}
}

// flush performs a final best-effort drain during shutdown
func (p *Persister) flush() {
	for {
		select {
		case frame := <-p.queue:
			p.append(context.Background(), frame)
		default:
			return
		}
	}
}
