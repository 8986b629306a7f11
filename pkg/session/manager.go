package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can block a session.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serialises access to session journals. Local locks are reference
// counted and dropped when unused; an optional DistributedLocker extends the
// guarantee across replicas.
type Manager struct {
	store ports.JournalStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock lease.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.JournalStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release after unlocking it.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Load retrieves an existing journal.
func (m *Manager) Load(ctx context.Context, sessionID string) (*catalog.Journal, error) {
	var journal *catalog.Journal
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		journal, err = m.store.Load(ctx, sessionID)
		return err
	})
	return journal, err
}

// LoadOrStart loads a journal or, if none exists, starts one at the catalog's
// initial facts and persists it immediately to reserve the ID.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string, c *catalog.Catalog) (*catalog.Journal, error) {
	var journal *catalog.Journal
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		journal, err = m.loadOrNew(ctx, sessionID, c)
		return err
	})
	return journal, err
}

func (m *Manager) loadOrNew(ctx context.Context, sessionID string, c *catalog.Catalog) (*catalog.Journal, error) {
	journal, err := m.store.Load(ctx, sessionID)
	if err == nil {
		if journal.Catalog != c.Name {
			return nil, fmt.Errorf("session '%s' belongs to catalog '%s', not '%s'", sessionID, journal.Catalog, c.Name)
		}
		return journal, nil
	}
	if !errors.Is(err, ports.ErrJournalNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}

	journal = catalog.NewJournal(sessionID, c)
	if err := m.store.Save(ctx, sessionID, journal); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("Session started", "session_id", sessionID, "catalog", c.Name)
	return journal, nil
}

// Update loads (or starts) a journal, passes it to fn and saves it, all under
// the session lock. The journal is saved even when fn fails, so that partial
// progress and the failure are recorded; fn's error is returned.
func (m *Manager) Update(ctx context.Context, sessionID string, c *catalog.Catalog, fn func(*catalog.Journal) error) (*catalog.Journal, error) {
	var journal *catalog.Journal
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		journal, err = m.loadOrNew(ctx, sessionID, c)
		if err != nil {
			return err
		}

		fnErr := fn(journal)
		if err := m.store.Save(ctx, sessionID, journal); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return fnErr
	})
	return journal, err
}

// Save persists the journal.
func (m *Manager) Save(ctx context.Context, sessionID string, journal *catalog.Journal) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, journal)
	})
}

// Delete removes the journal from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying journal store.
func (m *Manager) Store() ports.JournalStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
