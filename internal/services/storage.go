package services

import (
	"context"

	"github.com/keeper-games/last-algorithm/pkg/state"
)

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the service connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the service connection
	Close() error
}

// SessionStore defines the interface for session persistence. Records
// carry a TTL; an expired or missing record reads back as nil.
type SessionStore interface {
	HealthChecker
	Closer

	// SaveSession stores a session under the given session id,
	// refreshing its TTL.
	SaveSession(ctx context.Context, sessionID string, sess *state.Session) error

	// LoadSession retrieves a session by id.
	// Returns nil if the session doesn't exist.
	LoadSession(ctx context.Context, sessionID string) (*state.Session, error)

	// DeleteSession removes a session by id.
	DeleteSession(ctx context.Context, sessionID string) error
}
