// Package prefs is the durable device-local key-value state: vault
// identity, installation id and the pending-intent sets live here. It is
// private to one device and never synced.
//
// The Store interface keeps the persistence injectable; production code
// uses BadgerStore, tests typically use MemoryStore.
package prefs

import "sync"

// Store is a small namespaced KV port with string values.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key has never been set.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// MemoryStore is an in-memory Store for tests and throwaway profiles.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
