package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

const redisPrefix = "mobble:"

// Redis is an Adapter backed by a Redis server, for deployments where the
// engine runs as a stateless API in front of shared storage.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis adapter from an address like "localhost:6379".
func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping verifies connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *Redis) Close() error { return r.client.Close() }

// redisKey builds the storage key. Legacy unnamespaced blobs (empty user)
// carry no user segment, mirroring the pre-migration layout.
func redisKey(userID, key string) string {
	if userID == "" {
		return redisPrefix + key
	}
	return redisPrefix + userID + ":" + key
}

func (r *Redis) Get(ctx context.Context, userID, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, redisKey(userID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s/%s: %w", userID, key, err)
	}
	return value, nil
}

func (r *Redis) Put(ctx context.Context, userID, key string, value []byte) error {
	if err := r.client.Set(ctx, redisKey(userID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("put blob %s/%s: %w", userID, key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, userID, key string) error {
	if err := r.client.Del(ctx, redisKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("delete blob %s/%s: %w", userID, key, err)
	}
	return nil
}

func (r *Redis) Keys(ctx context.Context, userID string) ([]string, error) {
	prefix := redisKey(userID, "")
	raw, err := r.client.Keys(ctx, prefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("list keys %s: %w", userID, err)
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		suffix := strings.TrimPrefix(k, prefix)
		// Skip other users' namespaces when listing the legacy namespace.
		if userID == "" && strings.Contains(suffix, ":") {
			continue
		}
		keys = append(keys, suffix)
	}
	return keys, nil
}
