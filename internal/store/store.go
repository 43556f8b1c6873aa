// Package store holds the category and transaction collections and keeps them
// synchronized with durable storage.
package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/thriftly/internal/entity"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/persist"
	"github.com/Veraticus/thriftly/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Store is the application's single handle on its data. Build it once at the
// application root and pass it to whatever needs it.
type Store struct {
	Categories   *CategoryStore
	Transactions *TransactionStore

	categories   *persist.Binding[[]model.Category]
	transactions *persist.Binding[[]model.Transaction]
}

// New creates a store backed by slot. Both collections start empty until Load
// (or Activate) brings in the persisted state.
func New(slot storage.Slot, ids entity.IDGenerator, opts ...persist.Option) *Store {
	categories := persist.New(slot, storage.CategoriesKey, []model.Category{}, opts...)
	transactions := persist.New(slot, storage.TransactionsKey, []model.Transaction{}, opts...)

	return &Store{
		Categories:   NewCategoryStore(categories, ids),
		Transactions: NewTransactionStore(transactions, ids),
		categories:   categories,
		transactions: transactions,
	}
}

// Activate starts loading both collections without waiting for them.
func (s *Store) Activate(ctx context.Context) {
	s.categories.Activate(ctx)
	s.transactions.Activate(ctx)
}

// Load starts loading both collections and waits until both have finished or
// ctx is done. Malformed slot content is recovered by the bindings. A slot
// that cannot be read is returned as an error, and that collection keeps its
// changes in memory only.
func (s *Store) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	wait := func(done <-chan struct{}) func() error {
		return func() error {
			select {
			case <-done:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	}

	g.Go(wait(s.categories.Activate(ctx)))
	g.Go(wait(s.transactions.Activate(ctx)))

	if err := g.Wait(); err != nil {
		return err
	}
	if err := errors.Join(s.categories.Err(), s.transactions.Err()); err != nil {
		return err
	}

	slog.Debug("store loaded",
		"categories", len(s.categories.Value()),
		"transactions", len(s.transactions.Value()))
	return nil
}

// Initialized reports whether both collections finished their first load.
func (s *Store) Initialized() bool {
	return s.categories.Initialized() && s.transactions.Initialized()
}
