package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/session"
)

// slowStore adds IO latency so that missing locks would lose updates.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Save(ctx context.Context, id string, j *catalog.Journal) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, id, j)
}

func (s slowStore) Load(ctx context.Context, id string) (*catalog.Journal, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func counterCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Name:    "counter",
		Goal:    "bump",
		Actions: []catalog.Spec{{Name: "bump"}},
	}
}

func TestManager_UpdateSerialisesReadModifyWrite(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	c := counterCatalog()
	id := "race-test"

	var wg sync.WaitGroup
	writers := 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, c, func(j *catalog.Journal) error {
				j.History = append(j.History, "bump")
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	journal, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, journal.History, writers, "no update may be lost")
}

func TestManager_LoadOrStart(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()
	c := counterCatalog()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			journal, err := manager.LoadOrStart(ctx, id, c)
			assert.NoError(t, err)
			assert.NotNil(t, journal)
		}()
	}
	wg.Wait()

	journal, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "counter", journal.Catalog)
	assert.Equal(t, catalog.JournalActive, journal.Status)

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)
}

func TestManager_LoadOrStart_CatalogMismatch(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.LoadOrStart(ctx, "s", counterCatalog())
	require.NoError(t, err)

	other := counterCatalog()
	other.Name = "other"
	_, err = manager.LoadOrStart(ctx, "s", other)
	assert.ErrorContains(t, err, "belongs to catalog 'counter'")
}

func TestManager_UpdateSavesOnFailure(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := manager.Update(ctx, "s", counterCatalog(), func(j *catalog.Journal) error {
		j.LastError = boom.Error()
		return boom
	})
	assert.ErrorIs(t, err, boom)

	journal, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "boom", journal.LastError)
}

func TestManager_Delete(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := manager.LoadOrStart(ctx, "s", counterCatalog())
	require.NoError(t, err)
	require.NoError(t, manager.Delete(ctx, "s"))

	_, err = manager.Load(ctx, "s")
	assert.ErrorIs(t, err, ports.ErrJournalNotFound)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	locker := redis.NewLocker(client, "test:").WithRetryInterval(5 * time.Millisecond)

	// Two managers share a backend, like two replicas.
	a := session.NewManager(store, session.WithLocker(locker), session.WithLockTTL(5*time.Second))
	b := session.NewManager(store, session.WithLocker(locker))
	ctx := context.Background()
	c := counterCatalog()

	var wg sync.WaitGroup
	for i, m := range []*session.Manager{a, b, a, b} {
		wg.Add(1)
		go func(i int, m *session.Manager) {
			defer wg.Done()
			_, err := m.Update(ctx, "shared", c, func(j *catalog.Journal) error {
				j.History = append(j.History, "bump")
				return nil
			})
			assert.NoError(t, err, "writer %d", i)
		}(i, m)
	}
	wg.Wait()

	journal, err := a.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, journal.History, 4)
	assert.False(t, mr.Exists("test:lock:shared"), "lock released")
}
