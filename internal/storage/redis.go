package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/learndash/internal/shared"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "learndash"

// RedisBackend stores each entry as a plain redis string under "learndash:{namespace}:{key}".
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an existing client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// OpenRedisBackend connects to cfg.RedisAddr and verifies the connection with PING.
func OpenRedisBackend(ctx context.Context, cfg shared.StorageConfig) (*RedisBackend, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("%w: storage.redis_addr", shared.ErrMissingConfig)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis at %s: %v", shared.ErrServiceUnavailable, cfg.RedisAddr, err)
	}

	return NewRedisBackend(client), nil
}

func redisKey(namespace, key string) string {
	return redisKeyPrefix + ":" + namespace + ":" + key
}

func (r *RedisBackend) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, redisKey(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, namespace, key, value string) error {
	return r.client.Set(ctx, redisKey(namespace, key), value, 0).Err()
}

func (r *RedisBackend) Remove(ctx context.Context, namespace, key string) error {
	return r.client.Del(ctx, redisKey(namespace, key)).Err()
}

func (r *RedisBackend) Close() error { return r.client.Close() }
