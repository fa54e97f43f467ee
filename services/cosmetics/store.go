package cosmetics

import (
	"context"

	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Store defines the persistence interface for wardrobes.
type Store interface {
	Load(ctx context.Context, userID string) Wardrobe
	Save(ctx context.Context, userID string, wardrobe Wardrobe)
	Reset(ctx context.Context, userID string)
}

// KVStore implements Store over the shared persistence adapter.
type KVStore struct {
	blobs *storage.BlobStore
}

// NewKVStore creates a wardrobe store bound to the cosmetics blob key.
func NewKVStore(adapter storage.Adapter, log *logger.Logger) *KVStore {
	return &KVStore{blobs: storage.NewBlobStore(adapter, storage.KeyWardrobe, log)}
}

func (s *KVStore) Load(ctx context.Context, userID string) Wardrobe {
	wardrobe := DefaultWardrobe()
	s.blobs.Load(ctx, userID, &wardrobe)
	return wardrobe
}

func (s *KVStore) Save(ctx context.Context, userID string, wardrobe Wardrobe) {
	s.blobs.Save(ctx, userID, &wardrobe)
}

func (s *KVStore) Reset(ctx context.Context, userID string) {
	s.blobs.Delete(ctx, userID)
}
