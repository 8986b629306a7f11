package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/ports"
)

// Store implements ports.JournalStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*catalog.Journal
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*catalog.Journal),
	}
}

// Save stores a copy of the journal.
func (s *Store) Save(_ context.Context, sessionID string, journal *catalog.Journal) error {
	copied := journal.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate the stored journal by pointer.
func (s *Store) Load(_ context.Context, sessionID string) (*catalog.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	journal, ok := s.data[sessionID]
	if !ok {
		return nil, ports.ErrJournalNotFound
	}
	return journal.Clone(), nil
}

// Delete removes the journal.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns stored session IDs in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
