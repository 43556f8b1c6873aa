package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/thriftly/internal/entity"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/storage"
	"github.com/Veraticus/thriftly/internal/store"
	"github.com/Veraticus/thriftly/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryStore_CreateThenRead(t *testing.T) {
	s, _ := testutil.NewStore(t)

	existing, err := s.Categories.Create(model.CategoryInput{Name: "Rent", Icon: "house", Color: "blue"})
	require.NoError(t, err)

	created, err := s.Categories.Create(model.CategoryInput{Name: "Food", Icon: "utensils", Color: "green"})
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, created.ID)

	all := s.Categories.All()
	require.Len(t, all, 2)
	assert.Equal(t, created, all[1], "new categories are appended")

	matches := 0
	for _, c := range all {
		if c == created {
			matches++
		}
	}
	assert.Equal(t, 1, matches)

	found, ok := s.Categories.Find(created.ID)
	assert.True(t, ok)
	assert.Equal(t, created, found)
}

func TestCategoryStore_UpdateAndDelete(t *testing.T) {
	s, _ := testutil.NewStore(t)

	food, err := s.Categories.Create(model.CategoryInput{Name: "Food", Icon: "utensils", Color: "green"})
	require.NoError(t, err)

	food.Color = "orange"
	s.Categories.Update(food)
	got, _ := s.Categories.Find(food.ID)
	assert.Equal(t, "orange", got.Color)

	s.Categories.Update(model.Category{ID: "missing", Name: "Ghost"})
	assert.Len(t, s.Categories.All(), 1, "unknown ids are ignored")

	s.Categories.Delete("missing")
	assert.Len(t, s.Categories.All(), 1)

	s.Categories.Delete(food.ID)
	assert.Empty(t, s.Categories.All())
}

func TestCategoryStore_DeleteLeavesDanglingReferences(t *testing.T) {
	s, _ := testutil.NewStore(t)

	food, err := s.Categories.Create(model.CategoryInput{Name: "Food", Icon: "utensils", Color: "green"})
	require.NoError(t, err)
	txn, err := s.Transactions.Create(model.TransactionInput{Category: food.ID, Amount: -10, Timestamp: 1})
	require.NoError(t, err)

	s.Categories.Delete(food.ID)

	kept, ok := s.Transactions.Find(txn.ID)
	require.True(t, ok)
	assert.Equal(t, food.ID, kept.Category)

	resolved, found := model.ResolveCategory(s.Categories.All(), kept.Category)
	assert.False(t, found)
	assert.Equal(t, model.UnknownCategoryName, resolved.Name)
}

func TestCategoryStore_PermitsDuplicateNames(t *testing.T) {
	s, _ := testutil.NewStore(t)

	_, err := s.Categories.Create(model.CategoryInput{Name: "Food", Icon: "a", Color: "b"})
	require.NoError(t, err)
	_, err = s.Categories.Create(model.CategoryInput{Name: "food", Icon: "a", Color: "b"})
	require.NoError(t, err)

	assert.Len(t, s.Categories.All(), 2)
}

func TestStore_IDGenerationFailure(t *testing.T) {
	cause := errors.New("no entropy")
	slot := storage.NewMemoryStorage()
	s := store.New(slot, entity.GeneratorFunc(func() (string, error) { return "", cause }))
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Categories.Create(model.CategoryInput{Name: "Food"})
	var idErr *entity.IDGenerationError
	require.ErrorAs(t, err, &idErr)
	assert.Empty(t, s.Categories.All())

	_, err = s.Transactions.CreateMany([]model.TransactionInput{{Amount: 1}, {Amount: 2}})
	require.ErrorIs(t, err, cause)
	assert.Empty(t, s.Transactions.All())
	assert.Equal(t, 0, slot.Writes())
}

func TestTransactionStore_UpdateIsIdempotent(t *testing.T) {
	s, _ := testutil.NewStore(t)

	txn, err := s.Transactions.Create(model.TransactionInput{Category: "c", Amount: -5, Timestamp: 10, Tags: []string{"a"}})
	require.NoError(t, err)
	_, err = s.Transactions.Create(model.TransactionInput{Category: "c", Amount: 7, Timestamp: 20})
	require.NoError(t, err)

	txn.Amount = -6
	s.Transactions.Update(txn)
	once := s.Transactions.All()

	s.Transactions.Update(txn)
	assert.Equal(t, once, s.Transactions.All())
}

func TestTransactionStore_DeleteThenFilter(t *testing.T) {
	s, _ := testutil.NewStore(t)

	a, err := s.Transactions.Create(model.TransactionInput{Category: "c", Amount: 1, Timestamp: 1})
	require.NoError(t, err)
	b, err := s.Transactions.Create(model.TransactionInput{Category: "c", Amount: 2, Timestamp: 2})
	require.NoError(t, err)

	s.Transactions.Delete(a.ID)

	for _, txn := range s.Transactions.Filter(model.TransactionFilters{}) {
		assert.NotEqual(t, a.ID, txn.ID)
	}
	assert.Equal(t, []string{b.ID}, ids(s.Transactions.All()))
}

func TestTransactionStore_CreateMany(t *testing.T) {
	s, slot := testutil.NewStore(t)

	created, err := s.Transactions.CreateMany([]model.TransactionInput{
		{Category: "c", Amount: 1, Timestamp: 1},
		{Category: "c", Amount: -2, Timestamp: 2},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, ids(created), ids(s.Transactions.All()))
	assert.Equal(t, 1, slot.Writes(), "batch creation persists once")

	empty, err := s.Transactions.CreateMany(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, 1, slot.Writes())
}

func TestFilterTransactions(t *testing.T) {
	txns := []model.Transaction{
		{ID: "1", Category: "home", Tags: []string{"rent"}},
		{ID: "2", Category: "groceries", Tags: []string{"food"}},
		{ID: "3", Category: "home", Tags: []string{}},
		{ID: "4", Category: "home", Tags: []string{"food", "party"}},
	}

	tests := []struct {
		name    string
		filters model.TransactionFilters
		want    []string
	}{
		{name: "empty filter is identity", filters: model.TransactionFilters{}, want: []string{"1", "2", "3", "4"}},
		{name: "tags are OR-ed", filters: model.TransactionFilters{Tags: []string{"rent", "food"}}, want: []string{"1", "2", "4"}},
		{name: "categories by membership", filters: model.TransactionFilters{Categories: []string{"groceries"}}, want: []string{"2"}},
		{
			name:    "dimensions are AND-ed",
			filters: model.TransactionFilters{Categories: []string{"home"}, Tags: []string{"rent", "food"}},
			want:    []string{"1", "4"},
		},
		{name: "no match", filters: model.TransactionFilters{Tags: []string{"travel"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := append([]model.Transaction(nil), txns...)
			got := store.FilterTransactions(tt.filters, txns)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, before, txns, "input must not be modified")
		})
	}
}

func TestStore_PersistsAcrossReload(t *testing.T) {
	slot := storage.NewMemoryStorage()
	first, _ := testutil.NewStoreWithSlot(t, slot)

	food, err := first.Categories.Create(model.CategoryInput{Name: "Food", Icon: "utensils", Color: "green"})
	require.NoError(t, err)
	txn, err := first.Transactions.Create(model.TransactionInput{Category: food.ID, Amount: -12.5, Timestamp: 1700000000000, Tags: []string{"lunch"}})
	require.NoError(t, err)

	second, _ := testutil.NewStoreWithSlot(t, slot)
	assert.Equal(t, []model.Category{food}, second.Categories.All())
	assert.Equal(t, []model.Transaction{txn}, second.Transactions.All())
}

func TestStore_LoadWithSQLite(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Set(ctx, storage.CategoriesKey, `[{"id":"a","name":"Food","icon":"utensils","color":"green"}]`))

	s := store.New(db, testutil.NewSequentialIDs("id"))
	require.NoError(t, s.Load(ctx))
	assert.True(t, s.Initialized())
	assert.Equal(t, []model.Category{{ID: "a", Name: "Food", Icon: "utensils", Color: "green"}}, s.Categories.All())
	assert.Empty(t, s.Transactions.All())
}

func TestStore_LoadHonorsContext(t *testing.T) {
	slot := &blockingSlot{MemoryStorage: storage.NewMemoryStorage(), release: make(chan struct{})}
	defer close(slot.release)

	s := store.New(slot, testutil.NewSequentialIDs("id"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Load(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, s.Initialized())
}

func TestStore_LoadReportsUnreadableSlot(t *testing.T) {
	ctx := context.Background()
	slot := &failingSlot{MemoryStorage: storage.NewMemoryStorage(), key: storage.TransactionsKey}
	require.NoError(t, slot.MemoryStorage.Set(ctx, storage.TransactionsKey, `[{"id":"t1","category":"c","amount":-4.5,"timestamp":1,"tags":[]}]`))

	s := store.New(slot, testutil.NewSequentialIDs("id"))
	err := s.Load(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, storage.TransactionsKey)
	assert.False(t, s.Initialized())

	_, err = s.Transactions.Create(model.TransactionInput{Category: "c", Amount: 1, Timestamp: 2})
	require.NoError(t, err)
	raw, _, err := slot.MemoryStorage.Get(ctx, storage.TransactionsKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"t1"`)
	assert.NotContains(t, raw, `"id-`)
}

func TestStore_SubscribeNotifiesOnMutation(t *testing.T) {
	s, _ := testutil.NewStore(t)

	var seen [][]model.Transaction
	cancel := s.Transactions.Subscribe(func(txns []model.Transaction) {
		seen = append(seen, txns)
	})
	defer cancel()

	txn, err := s.Transactions.Create(model.TransactionInput{Category: "c", Amount: 3, Timestamp: 1})
	require.NoError(t, err)
	s.Transactions.Delete(txn.ID)

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 1)
	assert.Empty(t, seen[1])

	var categoryEvents int
	stop := s.Categories.Subscribe(func([]model.Category) { categoryEvents++ })
	defer stop()
	_, err = s.Categories.Create(model.CategoryInput{Name: "Food"})
	require.NoError(t, err)
	assert.Equal(t, 1, categoryEvents)
}

type blockingSlot struct {
	*storage.MemoryStorage
	release chan struct{}
}

func (b *blockingSlot) Get(ctx context.Context, key string) (string, bool, error) {
	<-b.release
	return b.MemoryStorage.Get(ctx, key)
}

// failingSlot fails every read of key.
type failingSlot struct {
	*storage.MemoryStorage
	key string
}

func (f *failingSlot) Get(ctx context.Context, key string) (string, bool, error) {
	if key == f.key {
		return "", false, errors.New("database is locked")
	}
	return f.MemoryStorage.Get(ctx, key)
}

func ids(txns []model.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, txn := range txns {
		out = append(out, txn.ID)
	}
	return out
}
