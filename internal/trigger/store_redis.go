package trigger

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisMarkTTL keeps Redis tidy; keys are day- or hour-scoped so 48h
// comfortably outlives every key's useful life.
const redisMarkTTL = 48 * time.Hour

// RedisStore keeps trigger marks in Redis. SETNX gives the same
// monotonic "key becomes true" semantics as the SQLite store and also
// holds across multiple server instances sharing one Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed mark store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "daymate:trigger:"}
}

// Has reports whether the key was already marked, failing open on error
func (s *RedisStore) Has(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		slog.Warn("trigger mark read failed, treating as unfired", "key", key, "error", err)
		return false
	}
	return n > 0
}

// Mark records the key. SETNX's reply says whether this caller set the
// key or lost the race to another claimant (possibly on another instance).
func (s *RedisStore) Mark(ctx context.Context, key string) (bool, error) {
	won, err := s.client.SetNX(ctx, s.prefix+key, 1, redisMarkTTL).Result()
	if err != nil {
		slog.Error("failed to persist trigger mark", "key", key, "error", err)
		return false, err
	}
	return won, nil
}
