package status

import (
	"context"
	"fmt"
	"time"

	internalRedis "repo-insight/internal/redis"

	"github.com/redis/go-redis/v9"
)

// casScript swaps a key's value only when the current value matches,
// refreshing the TTL in the same step.
const casScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
    return 1
end
return 0
`

type redisStore struct {
	client *internalRedis.Client
	cas    *redis.Script
}

// NewRedisStore returns a Store backed by Redis with per-key TTLs.
func NewRedisStore(client *internalRedis.Client) Store {
	return &redisStore{
		client: client,
		cas:    redis.NewScript(casScript),
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *redisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) CompareAndSwap(ctx context.Context, key, old, new string, ttl time.Duration) (bool, error) {
	// An empty old value means "only create", which SET NX covers directly.
	if old == "" {
		ok, err := s.client.SetNX(ctx, key, new, ttl).Result()
		if err != nil {
			return false, fmt.Errorf("failed to compare-and-swap %s: %w", key, err)
		}
		return ok, nil
	}

	result, err := s.cas.Run(ctx, s.client, []string{key}, old, new, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("failed to compare-and-swap %s: %w", key, err)
	}
	return result == 1, nil
}
