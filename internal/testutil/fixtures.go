package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Counter for generating unique fixture values
var idCounter atomic.Int64

// NextSender returns a unique sender name for test fixtures
func NextSender() string {
	return fmt.Sprintf("user-%d", idCounter.Add(1))
}

// SeedMessages appends n messages to the store, numbered from 1, and
// returns the texts in append order.
func SeedMessages(store *MockMessageStore, sender string, n int) []string {
	texts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text := fmt.Sprintf("message #%d", i)
		if _, err := store.Append(context.Background(), sender, text); err != nil {
			panic(err)
		}
		texts = append(texts, text)
	}
	return texts
}

// WaitFor polls cond until it returns true or the timeout elapses
func WaitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
