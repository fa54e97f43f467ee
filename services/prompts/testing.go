package prompts

import (
	"context"
	"sync"
)

// MemoryStore provides an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Load(ctx context.Context, userID, today string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	if !ok {
		return DefaultState(today)
	}
	return state
}

func (s *MemoryStore) Save(ctx context.Context, userID string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

func (s *MemoryStore) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}
