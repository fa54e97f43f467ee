package story

import (
	"context"

	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Store defines the persistence interface for story progress.
type Store interface {
	Load(ctx context.Context, userID string) Progress
	Save(ctx context.Context, userID string, progress Progress)
	Reset(ctx context.Context, userID string)
}

// KVStore implements Store over the shared persistence adapter.
type KVStore struct {
	blobs *storage.BlobStore
}

// NewKVStore creates a progress store bound to the story blob key.
func NewKVStore(adapter storage.Adapter, log *logger.Logger) *KVStore {
	return &KVStore{blobs: storage.NewBlobStore(adapter, storage.KeyStory, log)}
}

func (s *KVStore) Load(ctx context.Context, userID string) Progress {
	progress := DefaultProgress()
	s.blobs.Load(ctx, userID, &progress)
	return progress
}

func (s *KVStore) Save(ctx context.Context, userID string, progress Progress) {
	s.blobs.Save(ctx, userID, &progress)
}

func (s *KVStore) Reset(ctx context.Context, userID string) {
	s.blobs.Delete(ctx, userID)
}
