package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Client wraps redis.Client with common operations and instrumentation
type Client struct {
	redis  *redis.Client
	logger Logger
}

// NewClient creates a new Redis client wrapper
func NewClient(redisClient *redis.Client, logger Logger) *Client {
	return &Client{
		redis:  redisClient,
		logger: logger,
	}
}

// GetUnderlying returns the underlying redis.Client for advanced operations
func (c *Client) GetUnderlying() *redis.Client {
	return c.redis
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// SetWithExpiry sets a key with expiration
func (c *Client) SetWithExpiry(ctx context.Context, key, value string, expiry time.Duration) error {
	err := c.redis.Set(ctx, key, value, expiry).Err()
	if err != nil {
		c.logger.Error("redis SET failed", "key", key, "error", err)
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.logger.Debug("redis SET", "key", key, "expiry", expiry)
	return nil
}

// StrLen returns the byte length of a string key. Missing keys report
// zero length, matching Redis semantics.
func (c *Client) StrLen(ctx context.Context, key string) (int64, error) {
	n, err := c.redis.StrLen(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis STRLEN failed", "key", key, "error", err)
		return 0, fmt.Errorf("failed to strlen key %s: %w", key, err)
	}
	return n, nil
}

// GetRange reads an inclusive byte window of a string key
func (c *Client) GetRange(ctx context.Context, key string, start, end int64) (string, error) {
	val, err := c.redis.GetRange(ctx, key, start, end).Result()
	if err != nil {
		c.logger.Error("redis GETRANGE failed", "key", key, "start", start, "end", end, "error", err)
		return "", fmt.Errorf("failed to getrange key %s: %w", key, err)
	}
	c.logger.Debug("redis GETRANGE", "key", key, "start", start, "end", end, "bytes", len(val))
	return val, nil
}

// HGetAll reads all fields of a hash. A missing hash yields an empty map.
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := c.redis.HGetAll(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis HGETALL failed", "key", key, "error", err)
		return nil, fmt.Errorf("failed to hgetall key %s: %w", key, err)
	}
	return fields, nil
}

// HSet writes hash fields
func (c *Client) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	err := c.redis.HSet(ctx, key, fields).Err()
	if err != nil {
		c.logger.Error("redis HSET failed", "key", key, "error", err)
		return fmt.Errorf("failed to hset key %s: %w", key, err)
	}
	c.logger.Debug("redis HSET", "key", key, "fields", len(fields))
	return nil
}

// Delete removes keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	err := c.redis.Del(ctx, keys...).Err()
	if err != nil {
		c.logger.Error("redis DEL failed", "keys", keys, "error", err)
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}
