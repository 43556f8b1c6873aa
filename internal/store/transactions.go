package store

import (
	"log/slog"
	"slices"

	"github.com/Veraticus/thriftly/internal/entity"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/persist"
)

// TransactionStore owns the transaction collection.
type TransactionStore struct {
	binding *persist.Binding[[]model.Transaction]
	ids     entity.IDGenerator
}

// NewTransactionStore wraps binding with transaction operations.
func NewTransactionStore(binding *persist.Binding[[]model.Transaction], ids entity.IDGenerator) *TransactionStore {
	return &TransactionStore{binding: binding, ids: ids}
}

// All returns a copy of the transactions in insertion order.
func (s *TransactionStore) All() []model.Transaction {
	return slices.Clone(s.binding.Value())
}

// Find returns the transaction with the given id.
func (s *TransactionStore) Find(id string) (model.Transaction, bool) {
	return entity.Find(s.binding.Value(), id)
}

// Create assigns an id to input and appends the transaction.
func (s *TransactionStore) Create(input model.TransactionInput) (model.Transaction, error) {
	txn, err := entity.Create[model.Transaction](s.ids, input)
	if err != nil {
		return model.Transaction{}, err
	}

	s.binding.Update(func(prev []model.Transaction) []model.Transaction {
		return entity.Append(prev, txn)
	})

	slog.Debug("created transaction", "id", txn.ID, "amount", txn.Amount)
	return txn, nil
}

// CreateMany assigns ids to every input and appends them in a single change.
// If any id cannot be generated nothing is stored.
func (s *TransactionStore) CreateMany(inputs []model.TransactionInput) ([]model.Transaction, error) {
	created := make([]model.Transaction, 0, len(inputs))
	for _, input := range inputs {
		txn, err := entity.Create[model.Transaction](s.ids, input)
		if err != nil {
			return nil, err
		}
		created = append(created, txn)
	}

	if len(created) == 0 {
		return created, nil
	}

	s.binding.Update(func(prev []model.Transaction) []model.Transaction {
		return entity.Append(prev, created...)
	})

	slog.Debug("created transactions", "count", len(created))
	return created, nil
}

// Update replaces the transaction sharing txn.ID. Unknown ids are ignored.
func (s *TransactionStore) Update(txn model.Transaction) {
	s.binding.Update(func(prev []model.Transaction) []model.Transaction {
		return entity.Replace(prev, txn)
	})
}

// Delete removes the transaction with the given id.
func (s *TransactionStore) Delete(id string) {
	s.binding.Update(func(prev []model.Transaction) []model.Transaction {
		return entity.Remove(prev, id)
	})
}

// Filter applies filters to the current collection.
func (s *TransactionStore) Filter(filters model.TransactionFilters) []model.Transaction {
	return FilterTransactions(filters, s.binding.Value())
}

// Subscribe calls fn with the new collection after every change.
func (s *TransactionStore) Subscribe(fn func([]model.Transaction)) func() {
	return s.binding.Subscribe(fn)
}

// FilterTransactions returns the transactions in collection that pass filters,
// in their original order. The input is not modified.
func FilterTransactions(filters model.TransactionFilters, collection []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(collection))
	for _, txn := range collection {
		if filters.Matches(txn) {
			out = append(out, txn)
		}
	}
	return out
}
