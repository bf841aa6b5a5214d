package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTreeKeyPrefix = "catalog:tree:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisCategoryTreeCache shares serialized category trees between instances
type RedisCategoryTreeCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCategoryTreeCache connects to Redis and verifies the connection
func NewRedisCategoryTreeCache(ctx context.Context, cfg RedisConfig) (*RedisCategoryTreeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCategoryTreeCacheWithClient(client, ""), nil
}

// NewRedisCategoryTreeCacheWithClient wraps an existing client
func NewRedisCategoryTreeCacheWithClient(client *redis.Client, keyPrefix string) *RedisCategoryTreeCache {
	if keyPrefix == "" {
		keyPrefix = defaultTreeKeyPrefix
	}
	return &RedisCategoryTreeCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisCategoryTreeCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// Get returns the cached tree for tenantID
func (c *RedisCategoryTreeCache) Get(ctx context.Context, tenantID uuid.UUID) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read category tree: %w", err)
	}
	return data, true, nil
}

// Set stores data for tenantID with the given ttl
func (c *RedisCategoryTreeCache) Set(ctx context.Context, tenantID uuid.UUID, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(tenantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write category tree: %w", err)
	}
	return nil
}

// Invalidate drops the cached tree for tenantID
func (c *RedisCategoryTreeCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate category tree: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisCategoryTreeCache) Close() error {
	return c.client.Close()
}
