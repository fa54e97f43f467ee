package entitlement

import (
	"context"
	"sync"
)

// MemoryStore provides an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]Subscription)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[userID]
	if !ok {
		return DefaultSubscription()
	}
	return sub
}

func (s *MemoryStore) Save(ctx context.Context, userID string, sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[userID] = sub
}

func (s *MemoryStore) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, userID)
}
