package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/catalog"
)

func contractCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Name: "contract",
		Goal: "finish",
		Initial: map[string]any{
			"stage": "start",
			"count": 42,
		},
		Actions: []catalog.Spec{
			{Name: "finish", Requires: map[string]any{"stage": "start"}, Effects: map[string]any{"stage": "done"}},
		},
	}
}

// RunJournalStoreContract verifies that a JournalStore implementation adheres
// to the interface contract.
func RunJournalStoreContract(t *testing.T, store JournalStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")
	c := contractCatalog()

	t.Run("Save and Load", func(t *testing.T) {
		journal := catalog.NewJournal(sessionID, c)
		journal.History = []string{"finish"}
		journal.Facts.Set("stage", "done")
		journal.Facts.Applied = []string{"finish"}
		journal.Facts.Spent = 1

		err := store.Save(ctx, sessionID, journal)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.ID)
		assert.Equal(t, "contract", loaded.Catalog)
		assert.Equal(t, "finish", loaded.Goal)
		assert.Equal(t, []string{"finish"}, loaded.History)
		assert.Equal(t, catalog.JournalActive, loaded.Status)
		require.NotNil(t, loaded.Facts)
		assert.Equal(t, "done", loaded.Facts.Values["stage"])
		assert.Equal(t, 42.0, loaded.Facts.Values["count"], "numbers come back as float64")
		assert.Equal(t, 1.0, loaded.Facts.Cost())
	})

	t.Run("Load returns an isolated copy", func(t *testing.T) {
		journal := catalog.NewJournal(sessionID+"-iso", c)
		require.NoError(t, store.Save(ctx, journal.ID, journal))
		defer func() { _ = store.Delete(ctx, journal.ID) }()

		journal.History = append(journal.History, "late")
		journal.Facts.Set("stage", "tampered")

		loaded, err := store.Load(ctx, journal.ID)
		require.NoError(t, err)
		assert.Empty(t, loaded.History)
		assert.Equal(t, "start", loaded.Facts.Values["stage"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, ErrJournalNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, catalog.NewJournal(sessionID, c))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, ErrJournalNotFound, "Load after Delete should return ErrJournalNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, catalog.NewJournal(id1, c))
		_ = store.Save(ctx, id2, catalog.NewJournal(id2, c))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
