package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore implements cache.IdempotencyStore using Redis, so
// finalize replays short-circuit across service instances.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisIdempotencyStore creates a new RedisIdempotencyStore from
// redis.Options.
func NewRedisIdempotencyStore(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisIdempotencyStore {
	client := redis.NewClient(opt)
	return &RedisIdempotencyStore{client: client, prefix: prefix, logger: logger}
}

func (r *RedisIdempotencyStore) key(key string) string {
	return r.prefix + key
}

// Get retrieves the subscription id recorded for the key.
func (r *RedisIdempotencyStore) Get(
	ctx context.Context,
	key string,
) (uuid.UUID, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil // cache miss
	}
	if err != nil {
		r.logger.Error("redis idempotency get failed", "key", key, "error", err)
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt idempotency entry for %q: %w", key, err)
	}
	return id, true, nil
}

// Set records the subscription id for the key with a TTL.
func (r *RedisIdempotencyStore) Set(
	ctx context.Context,
	key string,
	subscriptionID uuid.UUID,
	ttl time.Duration,
) error {
	if err := r.client.Set(ctx, r.key(key), subscriptionID.String(), ttl).Err(); err != nil {
		r.logger.Error("redis idempotency set failed", "key", key, "error", err)
		return err
	}
	return nil
}
