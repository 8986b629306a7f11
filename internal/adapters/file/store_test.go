package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/internal/adapters/file"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/ports"
)

var _ ports.JournalStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunJournalStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesReadableJSON(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	c := &catalog.Catalog{Name: "c", Actions: []catalog.Spec{{Name: "a"}}}

	require.NoError(t, store.Save(context.Background(), "s1", catalog.NewJournal("s1", c)))

	data, err := os.ReadFile(filepath.Join(dir, "s1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"catalog": "c"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_Overwrite(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()
	c := &catalog.Catalog{Name: "c", Actions: []catalog.Spec{{Name: "a"}}}

	j := catalog.NewJournal("s1", c)
	require.NoError(t, store.Save(ctx, "s1", j))
	j.History = []string{"a"}
	require.NoError(t, store.Save(ctx, "s1", j))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, loaded.History)
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, file.ErrEmptySessionID)

	_, err = store.Load(ctx, "../escape")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
