// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/markup-labs/internal/domain"
)

// Repository defines the interface for persisting learners and their
// progress history.
type Repository interface {
	// GetUser retrieves a user by their user ID. It returns nil, nil when
	// the user does not exist.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// AppendEvent records a learner progress event.
	AppendEvent(ctx context.Context, event *domain.LearnerEvent) error

	// ListEvents returns the most recent events for a user, newest first.
	ListEvents(ctx context.Context, userID string, limit int) ([]*domain.LearnerEvent, error)

	// PruneEvents deletes events created before cutoff.
	PruneEvents(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
