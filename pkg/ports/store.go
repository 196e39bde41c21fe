package ports

import (
	"context"

	"github.com/aretw0/tracer/pkg/domain"
)

// StateStore defines the interface for persisting exercise sessions.
// Only the session envelope and its {data, lastStep} state are stored; everything
// else is rebuilt by replaying the routine.
type StateStore interface {
	// Save persists the session under the given ID.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
