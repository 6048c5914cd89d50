// Package cache provides a fail-open key-value cache backed by Redis.
// The cache is a performance optimization, never a correctness dependency:
// operational failures are logged and reported as misses or boolean failure
// flags, they are never surfaced as errors to callers.
package cache

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"catalog/internal/config"
)

const (
	maxRetries      = 10
	minRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff = 3 * time.Second

	scanBatchSize = 100
)

// Store is the cache surface the repositories depend on. Every method is
// fail-open; only Ping reports an error, for the readiness endpoint.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
	DeletePattern(ctx context.Context, pattern string) int
	Ping(ctx context.Context) error
}

// Client is the Redis-backed Store implementation.
type Client struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

// New opens a Redis client with a bounded reconnect backoff and verifies
// connectivity once. A startup connection failure is returned to the caller,
// which treats it as fatal; failures after startup degrade to cache misses.
func New(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            net.JoinHostPort(cfg.Host, cfg.Port),
		Password:        cfg.Password,
		DB:              cfg.DB,
		MaxRetries:      maxRetries,
		MinRetryBackoff: minRetryBackoff,
		MaxRetryBackoff: maxRetryBackoff,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Redis client connected")

	return &Client{rdb: rdb, defaultTTL: cfg.DefaultTTL}, nil
}

// Get returns the stored value for key and whether it was present. Any
// operational error is treated as a miss.
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("Cache get failed for key %s: %v", key, err)
		return "", false
	}
	return val, true
}

// Set stores value under key. A non-positive ttl selects the default TTL.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("Cache set failed for key %s: %v", key, err)
		return false
	}
	return true
}

// Delete removes a single key.
func (c *Client) Delete(ctx context.Context, key string) bool {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("Cache delete failed for key %s: %v", key, err)
		return false
	}
	return true
}

// DeletePattern removes every key matching the glob pattern and returns how
// many were deleted. Keys are discovered with SCAN to avoid blocking the
// server on large keyspaces.
func (c *Client) DeletePattern(ctx context.Context, pattern string) int {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("Cache pattern scan failed for %s: %v", pattern, err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Cache pattern delete failed for %s: %v", pattern, err)
		return 0
	}
	return len(keys)
}

// Ping checks cache reachability for the readiness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
