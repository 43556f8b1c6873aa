// Package storage provides the durable key-value slots the stores persist into.
package storage

import "context"

// Durable slot keys.
const (
	CategoriesKey   = "thriftly:categories"
	TransactionsKey = "thriftly:transactions"
)

// Slot is a durable key-value store that survives process restarts.
// Get reports ok=false when nothing has been stored under key.
type Slot interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
