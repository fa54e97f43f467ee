package storage

import (
	"context"
	"sync"
)

// Memory is an in-memory Adapter. It backs tests and is the default when no
// storage backend is configured.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]map[string][]byte // userID -> key -> blob
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, userID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ns, ok := m.blobs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	blob, ok := ns[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (m *Memory) Put(ctx context.Context, userID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.blobs[userID]
	if !ok {
		ns = make(map[string][]byte)
		m.blobs[userID] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

func (m *Memory) Delete(ctx context.Context, userID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ns, ok := m.blobs[userID]; ok {
		delete(ns, key)
	}
	return nil
}

func (m *Memory) Keys(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ns, ok := m.blobs[userID]
	if !ok {
		return nil, nil
	}
	keys := make([]string, 0, len(ns))
	for k := range ns {
		keys = append(keys, k)
	}
	return keys, nil
}
