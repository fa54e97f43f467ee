package cosmetics

import (
	"context"
	"sync"

	"github.com/mobble-app/mobble-engine/services/points"
)

// MemoryStore provides an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu        sync.RWMutex
	wardrobes map[string]Wardrobe
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{wardrobes: make(map[string]Wardrobe)}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) Wardrobe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wardrobe, ok := s.wardrobes[userID]
	if !ok {
		return DefaultWardrobe()
	}
	return wardrobe
}

func (s *MemoryStore) Save(ctx context.Context, userID string, wardrobe Wardrobe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wardrobes[userID] = wardrobe
}

func (s *MemoryStore) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wardrobes, userID)
}

// MockLedger implements Ledger with a fixed balance, for testing.
type MockLedger struct {
	mu       sync.Mutex
	Balance  int64
	DebitErr error
	Debits   []int64
}

func (m *MockLedger) Debit(ctx context.Context, userID string, amount int64) (points.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DebitErr != nil {
		return points.Account{}, m.DebitErr
	}
	m.Balance -= amount
	m.Debits = append(m.Debits, amount)
	return points.Account{TotalSpent: amount}, nil
}
