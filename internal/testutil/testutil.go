// Package testutil provides deterministic fixtures for tests across the
// thriftly packages: predictable ids, preloaded stores and a fluent
// transaction builder.
//
// Example:
//
//	s := testutil.NewStore(t)
//	txns := testutil.NewTransactionBuilder(time.UTC).
//		Income(100, "salary").
//		Expense(40, "food", "groceries").
//		Build()
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Veraticus/thriftly/internal/store"
	"github.com/Veraticus/thriftly/internal/storage"
)

// SequentialIDs generates "<prefix>-1", "<prefix>-2", ... in order.
type SequentialIDs struct {
	prefix string
	mu     sync.Mutex
	next   int
}

// NewSequentialIDs creates a generator using prefix.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next identifier.
func (g *SequentialIDs) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

// NewStore creates a loaded store over a fresh in-memory slot.
func NewStore(t *testing.T) (*store.Store, *storage.MemoryStorage) {
	t.Helper()
	return NewStoreWithSlot(t, storage.NewMemoryStorage())
}

// NewStoreWithSlot creates a store over slot and waits for it to load.
func NewStoreWithSlot(t *testing.T, slot *storage.MemoryStorage) (*store.Store, *storage.MemoryStorage) {
	t.Helper()

	s := store.New(slot, NewSequentialIDs("id"))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return s, slot
}
