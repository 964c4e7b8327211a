package domain

import "time"

// ConnState is the lifecycle state of a client connection
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosed
)

// String returns a human-readable state name for logging
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Connection represents one live client session. The registry exclusively
// owns the set of live connections; other components only read it.
type Connection struct {
	ID          string    `json:"id"`
	State       ConnState `json:"state"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Transition moves the connection to a new state. Closed is terminal:
// no transition leaves it, and reconnection creates a brand-new Connection.
func (c *Connection) Transition(to ConnState) error {
	if c.State == StateClosed {
		return ErrConnectionClosed
	}
	if to < c.State {
		return ErrInvalidTransition
	}
	c.State = to
	return nil
}
