package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache memoizes JSON-serialisable results in Redis. A nil *Cache disables caching.
type Cache struct {
	client redis.UniversalClient
	prefix string
}

// New wraps a Redis client
func New(client redis.UniversalClient) *Cache {
	return &Cache{client: client, prefix: "siteintel:"}
}

// NewClient creates a Redis client for the given address
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ping checks the connection
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Memoize function for caching any function result in Redis
func Memoize[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	return MemoizeIf(ctx, c, key, ttl, fn, func(T) bool { return true })
}

// MemoizeIf is Memoize with a predicate deciding whether a computed value is stored
func MemoizeIf[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func() (T, error), store func(T) bool) (T, error) {
	if c == nil {
		return fn()
	}

	var result T
	key = c.prefix + key

	// Try fetching from cache
	cachedData, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(cachedData, &result); jsonErr == nil {
			return result, nil
		}
	}

	// Call the actual function
	result, err = fn()
	if err != nil {
		return result, err
	}
	if !store(result) {
		return result, nil
	}

	// Store result in cache
	cacheData, err := json.Marshal(result)
	if err == nil {
		c.client.Set(ctx, key, cacheData, ttl)
	}

	return result, nil
}
