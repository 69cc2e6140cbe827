package vaults

import (
	"context"
	"maps"
	"sync"
)

// MemoryRepository is an in-memory Repository for handler tests and local
// experiments without a database.
type MemoryRepository struct {
	mu         sync.Mutex
	records    map[string]map[string]string
	tombstones map[string]map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:    make(map[string]map[string]string),
		tombstones: make(map[string]map[string]int64),
	}
}

func (m *MemoryRepository) Records(ctx context.Context, vaultID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	maps.Copy(out, m.records[vaultID])
	return out, nil
}

func (m *MemoryRepository) PutRecord(ctx context.Context, vaultID, stableID, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[vaultID] == nil {
		m.records[vaultID] = make(map[string]string)
	}
	m.records[vaultID][stableID] = payload
	return nil
}

func (m *MemoryRepository) RemoveRecord(ctx context.Context, vaultID, stableID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[vaultID][stableID]; !ok {
		return false, nil
	}
	delete(m.records[vaultID], stableID)
	return true, nil
}

func (m *MemoryRepository) Tombstones(ctx context.Context, vaultID string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int64{}
	maps.Copy(out, m.tombstones[vaultID])
	return out, nil
}

func (m *MemoryRepository) PutTombstone(ctx context.Context, vaultID, stableID string, deletedAtMs int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tombstones[vaultID] == nil {
		m.tombstones[vaultID] = make(map[string]int64)
	}
	m.tombstones[vaultID][stableID] = deletedAtMs
	return nil
}
