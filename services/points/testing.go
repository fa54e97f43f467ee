package points

import (
	"context"
	"sync"
)

// MemoryStore provides an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Account)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[userID]
	if !ok {
		return DefaultAccount()
	}
	return account
}

func (s *MemoryStore) Save(ctx context.Context, userID string, account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[userID] = account
}

func (s *MemoryStore) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, userID)
}
