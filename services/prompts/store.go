package prompts

import (
	"context"

	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Store defines the persistence interface for prompt state.
type Store interface {
	Load(ctx context.Context, userID, today string) State
	Save(ctx context.Context, userID string, state State)
	Reset(ctx context.Context, userID string)
}

// KVStore implements Store over the shared persistence adapter.
type KVStore struct {
	blobs *storage.BlobStore
}

// NewKVStore creates a prompt state store bound to the prompts blob key.
func NewKVStore(adapter storage.Adapter, log *logger.Logger) *KVStore {
	return &KVStore{blobs: storage.NewBlobStore(adapter, storage.KeyPrompts, log)}
}

func (s *KVStore) Load(ctx context.Context, userID, today string) State {
	state := DefaultState(today)
	s.blobs.Load(ctx, userID, &state)
	return state
}

func (s *KVStore) Save(ctx context.Context, userID string, state State) {
	s.blobs.Save(ctx, userID, &state)
}

func (s *KVStore) Reset(ctx context.Context, userID string) {
	s.blobs.Delete(ctx, userID)
}
