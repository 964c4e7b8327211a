package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
)

// Class 08 in PostgreSQL covers connection exceptions
const pqConnectionExceptionClass = "08"

// wrapUnavailable tags a driver error with domain.ErrStoreUnavailable so
// callers can match the failure class without importing lib/pq.
func wrapUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

// IsConnectionError reports whether an error is a PostgreSQL connection
// failure rather than a statement-level one.
func IsConnectionError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code.Class() == pqConnectionExceptionClass
}
