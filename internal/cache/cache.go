package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gym_crm_backend/pkg/utils"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores computed values (balances, dashboard stats) between reads.
// Every mutation of the underlying data must Delete the affected keys; callers
// never adjust cached values in place.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis using REDIS_ADDR / REDIS_PASSWORD.
func NewRedisCache() (Cache, error) {
	addr := utils.Getenv("REDIS_ADDR", "localhost:6379")
	if !strings.Contains(addr, ":") {
		addr = addr + ":6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.Getenv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get value from Redis: %w", err)
	}
	return val, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
