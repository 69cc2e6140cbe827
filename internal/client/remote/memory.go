package remote

import (
	"context"
	"maps"
	"sync"
)

// Memory is an in-process Store. It backs engine tests and makes a second
// in-repo backend for local experiments; the production path is HTTPStore.
type Memory struct {
	mu         sync.Mutex
	records    map[string]string
	tombstones map[string]int64

	// Err, when set, is returned by every operation. Lets tests simulate an
	// unreachable backend.
	Err error
}

func NewMemory() *Memory {
	return &Memory{
		records:    make(map[string]string),
		tombstones: make(map[string]int64),
	}
}

func (m *Memory) Transactions(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return maps.Clone(m.records), nil
}

func (m *Memory) Tombstones(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return maps.Clone(m.tombstones), nil
}

func (m *Memory) PutTransaction(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.records[id] = token
	return nil
}

func (m *Memory) RemoveTransaction(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.records, id)
	return nil
}

func (m *Memory) PutTombstone(ctx context.Context, id string, deletedAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.tombstones[id] = deletedAt
	return nil
}
