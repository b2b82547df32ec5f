package keyval

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "fitbuddy-store||"

var _ Store = (*RedisStore)(nil)

// RedisStore persists blobs in redis, without expiration. Values survive
// service restarts but live in a single logical namespace, like the
// browser origin scoping the original data lived under.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (rs *RedisStore) Get(ctx context.Context, key string) (string, error) {
	cmd := rs.redisClient.Get(ctx, keyPrefix+key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return cmd.Val(), nil
}

func (rs *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := rs.redisClient.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (rs *RedisStore) Del(ctx context.Context, keys ...string) error {
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, keyPrefix+key)
	}
	if err := rs.redisClient.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del %v: %w", keys, err)
	}
	return nil
}
