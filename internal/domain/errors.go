package domain

import "errors"

var (
	// ErrInvalidInput indicates a message that fails submission validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the persistence backend is unreachable
	// or a write failed. Never fatal to the relay; callers on the broadcast
	// path log it and continue.
	ErrStoreUnavailable = errors.New("message store unavailable")

	// ErrConnectionClosed indicates an operation on a closed connection
	ErrConnectionClosed = errors.New("connection closed")

	// ErrInvalidTransition indicates a disallowed connection state change
	ErrInvalidTransition = errors.New("invalid connection state transition")
)
