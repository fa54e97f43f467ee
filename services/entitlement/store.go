package entitlement

import (
	"context"

	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Store defines the persistence interface for subscriptions.
type Store interface {
	Load(ctx context.Context, userID string) Subscription
	Save(ctx context.Context, userID string, sub Subscription)
	Reset(ctx context.Context, userID string)
}

// KVStore implements Store over the shared persistence adapter.
type KVStore struct {
	blobs *storage.BlobStore
}

// NewKVStore creates a subscription store bound to the subscription blob key.
func NewKVStore(adapter storage.Adapter, log *logger.Logger) *KVStore {
	return &KVStore{blobs: storage.NewBlobStore(adapter, storage.KeySubscription, log)}
}

func (s *KVStore) Load(ctx context.Context, userID string) Subscription {
	sub := DefaultSubscription()
	s.blobs.Load(ctx, userID, &sub)
	return sub
}

func (s *KVStore) Save(ctx context.Context, userID string, sub Subscription) {
	s.blobs.Save(ctx, userID, &sub)
}

func (s *KVStore) Reset(ctx context.Context, userID string) {
	s.blobs.Delete(ctx, userID)
}
