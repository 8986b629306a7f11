package ports

import (
	"context"
	"errors"

	"github.com/aretw0/waypoint/pkg/catalog"
)

// ErrJournalNotFound is returned by Load when no journal exists for an ID.
var ErrJournalNotFound = errors.New("journal not found")

// JournalStore persists session journals so that a plan can be resumed one
// committed step at a time across processes.
type JournalStore interface {
	// Save persists the journal under the given session ID.
	Save(ctx context.Context, sessionID string, journal *catalog.Journal) error

	// Load retrieves the journal for a session.
	// Returns ErrJournalNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*catalog.Journal, error)

	// Delete removes the journal. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
