package storage

import (
	"context"
	"sync"
)

// MemoryStorage is a Slot kept in process memory. Contents are lost when the
// process exits.
type MemoryStorage struct {
	values map[string]string
	mu     sync.RWMutex
	writes int
}

// NewMemoryStorage creates an empty in-memory slot store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateContext(ctx); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores value under key.
func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

// Writes returns how many Set calls succeeded.
func (m *MemoryStorage) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Close is a no-op so MemoryStorage can stand in for SQLiteStorage.
func (m *MemoryStorage) Close() error {
	return nil
}
