package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSQLiteStorage_GetMissing(t *testing.T) {
	store := createTestStorage(t)

	value, ok, err := store.Get(context.Background(), CategoriesKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestSQLiteStorage_SetGet(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CategoriesKey, `[{"id":"a"}]`))
	require.NoError(t, store.Set(ctx, TransactionsKey, `[]`))
	require.NoError(t, store.Set(ctx, CategoriesKey, `[{"id":"b"}]`))

	value, ok, err := store.Get(ctx, CategoriesKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"b"}]`, value)

	value, ok, err = store.Get(ctx, TransactionsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value, "keys are stored independently")
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "thriftly.db")
	ctx := context.Background()

	first, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Migrate(ctx))
	require.NoError(t, first.Set(ctx, TransactionsKey, `[{"id":"t1","amount":-4.5}]`))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Migrate(ctx))

	value, ok, err := second.Get(ctx, TransactionsKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"t1","amount":-4.5}]`, value)
	assert.Equal(t, dbPath, second.Path())
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx), "migrations must be idempotent")

	version, err = store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSQLiteStorage_Validation(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.ErrorIs(t, err, ErrEmptyString)

	store := createTestStorage(t)

	//nolint:staticcheck // exercising nil context handling
	_, _, err = store.Get(nil, CategoriesKey)
	require.ErrorIs(t, err, ErrNilContext)

	err = store.Set(context.Background(), "", "x")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestMemoryStorage(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, CategoriesKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, CategoriesKey, "[]"))
	value, ok, err := store.Get(ctx, CategoriesKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
	assert.Equal(t, 1, store.Writes())
	assert.NoError(t, store.Close())
}
