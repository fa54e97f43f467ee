package story

import (
	"context"
	"sync"
)

// MemoryStore provides an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu       sync.RWMutex
	progress map[string]Progress
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{progress: make(map[string]Progress)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.progress[userID]
	if !ok {
		return DefaultProgress()
	}
	return progress
}

func (s *MemoryStore) Save(ctx context.Context, userID string, progress Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[userID] = progress
}

func (s *MemoryStore) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, userID)
}
