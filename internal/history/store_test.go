package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordFlagsNewCompaniesOnce(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first, err := store.StartRun(ctx, 3)
	require.NoError(t, err)

	isNew, err := store.Record(ctx, first, "acme", "Acme", 5)
	require.NoError(t, err)
	assert.True(t, isNew)

	// Recording the same company again in the same run keeps it new.
	isNew, err = store.Record(ctx, first, "acme", "Acme", 5)
	require.NoError(t, err)
	assert.True(t, isNew)
	require.NoError(t, store.FinishRun(ctx, first, 1))

	second, err := store.StartRun(ctx, 3)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	isNew, err = store.Record(ctx, second, "acme", "Acme Inc", 7)
	require.NoError(t, err)
	assert.False(t, isNew)

	isNew, err = store.Record(ctx, second, "globex", "Globex", 2)
	require.NoError(t, err)
	assert.True(t, isNew)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, runs)

	var name string
	var score int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT name, last_score FROM companies WHERE slug = 'acme'`).Scan(&name, &score))
	assert.Equal(t, "Acme Inc", name)
	assert.Equal(t, 7, score)
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	run, err := store.StartRun(ctx, 1)
	require.NoError(t, err)
	_, err = store.Record(ctx, run, "acme", "Acme", 1)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	run, err = store.StartRun(ctx, 1)
	require.NoError(t, err)
	isNew, err := store.Record(ctx, run, "acme", "Acme", 1)
	require.NoError(t, err)
	assert.False(t, isNew)
}

func TestRecordRejectsEmptySlug(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Record(context.Background(), "run", "", "Nameless", 0)
	assert.EqualError(t, err, "empty slug")
}
