package tui

import (
	"testing"
	"time"

	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/store"
	"github.com/Veraticus/thriftly/internal/testutil"
	"github.com/Veraticus/thriftly/internal/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 15, 18, 0, 0, 0, time.UTC)

func seedStore(t *testing.T, count int) *store.Store {
	t.Helper()
	s, _ := testutil.NewStore(t)

	food, err := s.Categories.Create(model.CategoryInput{Name: "Food", Icon: "utensils", Color: "green"})
	require.NoError(t, err)
	rent, err := s.Categories.Create(model.CategoryInput{Name: "Rent", Icon: "house", Color: "blue"})
	require.NoError(t, err)

	b := testutil.NewTransactionBuilder(time.UTC)
	for i := 0; i < count; i++ {
		if i%5 == 0 {
			b.Expense(500, rent.ID, "home")
		} else {
			b.Expense(10, food.ID, "lunch")
		}
	}
	inputs := make([]model.TransactionInput, 0, count)
	for _, txn := range b.Build() {
		inputs = append(inputs, txn.Input())
	}
	_, err = s.Transactions.CreateMany(inputs)
	require.NoError(t, err)
	return s
}

func newTestModel(s *store.Store, changes <-chan struct{}) Model {
	return New(s, changes,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return testNow }),
		WithSize(100, 40))
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		var ok bool
		m, ok = updated.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func repeat(k tea.KeyMsg, n int) []tea.KeyMsg {
	out := make([]tea.KeyMsg, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func TestModel_ReachingBottomLoadsNextPage(t *testing.T) {
	m := newTestModel(seedStore(t, 25), nil)
	require.Len(t, m.Feed().Visible(), 10)

	m = press(t, m, repeat(tea.KeyMsg{Type: tea.KeyDown}, 8)...)
	assert.Equal(t, 1, m.Feed().Pages())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Feed().Pages())
	assert.Len(t, m.Feed().Visible(), 20)

	m = press(t, m, runes("G"))
	assert.Equal(t, 3, m.Feed().Pages())
	assert.Len(t, m.Feed().Visible(), 25)

	m = press(t, m, runes("G"), runes("g"))
	assert.Equal(t, 3, m.Feed().Pages(), "pages are never retracted")
	selected, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, m.Feed().Visible()[0], selected)
}

func TestModel_DeleteSelected(t *testing.T) {
	s := seedStore(t, 3)
	m := newTestModel(s, nil)

	selected, ok := m.Selected()
	require.True(t, ok)

	m = press(t, m, runes("d"))
	_, found := s.Transactions.Find(selected.ID)
	assert.False(t, found)
	assert.Equal(t, 2, m.Feed().Len())
	assert.Contains(t, m.View(), "Deleted transaction")
}

func TestModel_RecomputesOnStoreChange(t *testing.T) {
	s := seedStore(t, 2)
	changes, stop := Subscribe(s)
	defer stop()
	m := newTestModel(s, changes)

	_, err := s.Transactions.Create(model.TransactionInput{Category: "other", Amount: 42, Timestamp: model.Timestamp(testNow)})
	require.NoError(t, err)

	select {
	case <-changes:
	default:
		t.Fatal("expected a change signal")
	}
	assert.Equal(t, 2, m.Feed().Len(), "views only change after the message is handled")

	updated, cmd := m.Update(storeChangedMsg{})
	m = updated.(Model)
	assert.Equal(t, 3, m.Feed().Len())
	assert.NotNil(t, cmd, "keeps listening for changes")
}

func TestModel_FilterCycling(t *testing.T) {
	s := seedStore(t, 10)
	m := newTestModel(s, nil)
	categories := s.Categories.All()
	food, rent := categories[0], categories[1]

	m = press(t, m, runes("c"))
	assert.Equal(t, []string{food.ID}, m.Filters().Categories, "most frequent category first")
	assert.Equal(t, 8, m.Feed().Len())

	m = press(t, m, runes("c"))
	assert.Equal(t, []string{rent.ID}, m.Filters().Categories)
	assert.Equal(t, 2, m.Feed().Len())

	m = press(t, m, runes("c"))
	assert.Empty(t, m.Filters().Categories)
	assert.Equal(t, 10, m.Feed().Len())

	m = press(t, m, runes("t"))
	assert.Equal(t, []string{"lunch"}, m.Filters().Tags)
	assert.Contains(t, m.View(), "#lunch")

	m = press(t, m, runes("x"))
	assert.True(t, m.Filters().IsEmpty())
}

func TestModel_View(t *testing.T) {
	m := newTestModel(seedStore(t, 25), nil)

	out := m.View()
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Showing 10 of 25")
	assert.Contains(t, out, "scroll down for more")

	m = press(t, m, runes("m"))
	assert.Contains(t, m.View(), "Jun 24")

	updated, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Empty(t, updated.View())
}

func TestModel_EmptyStore(t *testing.T) {
	s, _ := testutil.NewStore(t)
	m := newTestModel(s, nil)

	_, ok := m.Selected()
	assert.False(t, ok)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("d"), runes("c"))
	assert.Contains(t, m.View(), "No transactions")
}

func TestNextValue(t *testing.T) {
	options := []view.FacetOption{
		{All: true, Count: 6},
		{Value: "a", Count: 4},
		{Value: "b", Count: 2},
		{Value: "c", Count: 0},
	}

	assert.Nil(t, nextValue(nil, nil))
	assert.Equal(t, []string{"a"}, nextValue(nil, options))
	assert.Equal(t, []string{"a"}, nextValue([]string{"a", "b"}, options))
	assert.Equal(t, []string{"b"}, nextValue([]string{"a"}, options))
	assert.Nil(t, nextValue([]string{"b"}, options), "zero-count options are skipped")
	assert.Equal(t, []string{"a"}, nextValue([]string{"gone"}, options))
}
