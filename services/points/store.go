package points

import (
	"context"

	"github.com/mobble-app/mobble-engine/internal/storage"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// Store defines the persistence interface for ledger accounts. Load always
// yields a usable account: missing or unreadable blobs fall back to the
// default, and Save failures degrade to changes not surviving reload.
type Store interface {
	Load(ctx context.Context, userID string) Account
	Save(ctx context.Context, userID string, account Account)
	Reset(ctx context.Context, userID string)
}

// KVStore implements Store over the shared persistence adapter.
type KVStore struct {
	blobs *storage.BlobStore
}

// NewKVStore creates a ledger store bound to the points blob key.
func NewKVStore(adapter storage.Adapter, log *logger.Logger) *KVStore {
	return &KVStore{blobs: storage.NewBlobStore(adapter, storage.KeyPoints, log)}
}

func (s *KVStore) Load(ctx context.Context, userID string) Account {
	account := DefaultAccount()
	s.blobs.Load(ctx, userID, &account)
	return account
}

func (s *KVStore) Save(ctx context.Context, userID string, account Account) {
	s.blobs.Save(ctx, userID, &account)
}

func (s *KVStore) Reset(ctx context.Context, userID string) {
	s.blobs.Delete(ctx, userID)
}
