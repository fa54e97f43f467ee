// Package storage provides the per-user namespaced key-value persistence
// adapter shared by every engine service. Each logical entity is one JSON
// blob per user, independently loadable and saveable. The empty user ID
// addresses the legacy unnamespaced namespace that predates per-user keys.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no blob exists for a (user, key) pair.
var ErrNotFound = errors.New("blob not found")

// Adapter is the persistence boundary. Services never touch each other's
// blobs; each owns a fixed key and goes through its own store type.
type Adapter interface {
	// Get returns the blob stored under (userID, key), or ErrNotFound.
	Get(ctx context.Context, userID, key string) ([]byte, error)
	// Put overwrites the blob stored under (userID, key).
	Put(ctx context.Context, userID, key string, value []byte) error
	// Delete removes the blob under (userID, key). Missing blobs are a no-op.
	Delete(ctx context.Context, userID, key string) error
	// Keys lists the keys present in a user's namespace.
	Keys(ctx context.Context, userID string) ([]string, error)
}

// Blob keys owned by the engine services. Kept in one place so legacy
// migration can enumerate them.
const (
	KeyPoints       = "points"
	KeySubscription = "subscription"
	KeyWardrobe     = "cosmetics"
	KeyStory        = "story-progress"
	KeyPrompts      = "prompts"
	KeyRedemptions  = "redemptions"
)

// AllKeys returns every blob key the engine persists.
func AllKeys() []string {
	return []string{
		KeyPoints,
		KeySubscription,
		KeyWardrobe,
		KeyStory,
		KeyPrompts,
		KeyRedemptions,
	}
}
