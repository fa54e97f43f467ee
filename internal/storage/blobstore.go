package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mobble-app/mobble-engine/internal/metrics"
	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// BlobStore binds one blob key to an adapter and applies the engine's
// persistence discipline: loads default-merge into a caller-initialised
// value, and failed writes are logged and dropped so the in-memory state
// stays the source of truth for the rest of the session.
type BlobStore struct {
	adapter Adapter
	key     string
	log     *logger.Logger
}

// NewBlobStore creates a store for one blob key.
func NewBlobStore(adapter Adapter, key string, log *logger.Logger) *BlobStore {
	if log == nil {
		log = logger.NewDefault("storage")
	}
	return &BlobStore{adapter: adapter, key: key, log: log}
}

// Load unmarshals the user's blob into v, which the caller pre-fills with
// defaults; fields missing from the stored JSON keep their default values.
// Returns false when no blob exists. Corrupt blobs are treated as absent.
func (s *BlobStore) Load(ctx context.Context, userID string, v interface{}) bool {
	blob, err := s.adapter.Get(ctx, userID, s.key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.log.WithError(err).
			WithField("key", s.key).
			WithField("user_id", userID).
			Warn("blob load failed, using defaults")
		return false
	}
	if err := json.Unmarshal(blob, v); err != nil {
		s.log.WithError(err).
			WithField("key", s.key).
			WithField("user_id", userID).
			Warn("blob corrupt, using defaults")
		return false
	}
	return true
}

// Save persists v as the user's blob. Failures degrade to "changes don't
// survive reload": they are logged and counted, never surfaced.
func (s *BlobStore) Save(ctx context.Context, userID string, v interface{}) {
	blob, err := json.Marshal(v)
	if err == nil {
		err = s.adapter.Put(ctx, userID, s.key, blob)
	}
	if err != nil {
		metrics.RecordStorageWriteFailure(s.key)
		s.log.WithError(err).
			WithField("key", s.key).
			WithField("user_id", userID).
			Warn("blob write dropped")
	}
}

// Delete removes the user's blob, used by reset-to-default operations.
func (s *BlobStore) Delete(ctx context.Context, userID string) {
	if err := s.adapter.Delete(ctx, userID, s.key); err != nil {
		s.log.WithError(err).
			WithField("key", s.key).
			WithField("user_id", userID).
			Warn("blob delete dropped")
	}
}
