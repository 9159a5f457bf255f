package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const generationKey = "catalog:generation"

// CatalogCache caches rendered catalog listings in Redis. Entries are keyed
// by a generation counter plus the query parameters; any book mutation bumps
// the generation, which orphans every stale entry and lets the TTL reap it.
//
// A nil CatalogCache (or one constructed without an address) is a no-op, so
// the API keeps working without Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache connects to Redis at addr. An empty addr disables caching.
func NewCatalogCache(addr, password string, ttl time.Duration) (*CatalogCache, error) {
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CatalogCache{client: rdb, ttl: ttl}, nil
}

// Get returns the cached payload for the given query, if present, along with
// the generation it read. Callers pass that generation back to Set when
// filling a miss: if an invalidation bumps the counter in between, the write
// lands under the old generation and stays orphaned instead of surfacing
// stale data under the new one.
func (c *CatalogCache) Get(ctx context.Context, search, status string) ([]byte, int64, bool) {
	if c == nil || c.client == nil {
		return nil, 0, false
	}

	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false
	}

	payload, err := c.client.Get(ctx, key(gen, search, status)).Bytes()
	if err != nil {
		return nil, gen, false
	}
	return payload, gen, true
}

// Set stores the payload for the given query under the given generation.
func (c *CatalogCache) Set(ctx context.Context, search, status string, generation int64, payload []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key(generation, search, status), payload, c.ttl).Err()
}

// Invalidate bumps the generation counter, orphaning all cached listings.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, generationKey).Err()
}

// Close releases the underlying Redis connection.
func (c *CatalogCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *CatalogCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && err != redis.Nil {
		return 0, err
	}
	return gen, nil
}

func key(generation int64, search, status string) string {
	return fmt.Sprintf("catalog:%d:search=%s:status=%s", generation, search, status)
}
