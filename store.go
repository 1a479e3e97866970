package adminauth

import (
	"context"
	"sync"
)

// RecordStore is the persistence boundary for identity records. Values
// are opaque strings; the identity store layers key naming and JSON on
// top. PutIfAbsent must be atomic: it is the primitive that keeps two
// concurrent registrations of the same username from both succeeding.
type RecordStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	PutIfAbsent(ctx context.Context, key, value string) (bool, error)
}

// MemoryStore is a mutex-guarded in-memory RecordStore for tests and
// single-process development setups.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]string{}}
}

// Get satisfies the RecordStore interface.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.records[key]
	return value, ok, nil
}

// Put satisfies the RecordStore interface.
func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = value
	return nil
}

// PutIfAbsent satisfies the RecordStore interface.
func (m *MemoryStore) PutIfAbsent(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[key]; exists {
		return false, nil
	}
	m.records[key] = value
	return true, nil
}

// Len reports how many records the store holds.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
