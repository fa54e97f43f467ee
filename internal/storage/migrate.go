package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mobble-app/mobble-engine/pkg/logger"
)

// MigrateLegacy copies any blob still living in the legacy unnamespaced
// namespace into the given user's namespace and deletes the original. A key
// is skipped when the user already has a blob for it, so the migration is
// one-time per key and safe to re-run on every login.
func MigrateLegacy(ctx context.Context, adapter Adapter, userID string, log *logger.Logger) error {
	if userID == "" {
		return errors.New("user id required for migration")
	}

	for _, key := range AllKeys() {
		if _, err := adapter.Get(ctx, userID, key); err == nil {
			continue // user already has data for this key
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("check %s: %w", key, err)
		}

		legacy, err := adapter.Get(ctx, "", key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read legacy %s: %w", key, err)
		}

		if err := adapter.Put(ctx, userID, key, legacy); err != nil {
			return fmt.Errorf("copy legacy %s: %w", key, err)
		}
		if err := adapter.Delete(ctx, "", key); err != nil {
			return fmt.Errorf("remove legacy %s: %w", key, err)
		}
		if log != nil {
			log.WithField("key", key).
				WithField("user_id", userID).
				Info("legacy blob migrated")
		}
	}
	return nil
}
