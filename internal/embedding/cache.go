package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/logger"
)

// Cache stores embeddings by key.
type Cache interface {
	Get(ctx context.Context, key string) (Vector, bool, error)
	Set(ctx context.Context, key string, v Vector) error
}

// CacheKey derives the cache key for text embedded by model at dim.
func CacheKey(model string, dim int, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("jobmatch:emb:%s:%d:%s", model, dim, hex.EncodeToString(sum[:]))
}

// Cached consults a Cache before delegating to the wrapped provider.
// Zero vectors are never stored.
type Cached struct {
	Provider
	cache  Cache
	logger *zap.Logger
}

// NewCached wraps p with cache.
func NewCached(p Provider, cache Cache, log *zap.Logger) *Cached {
	return &Cached{Provider: p, cache: cache, logger: logger.OrNop(log).Named("embedding-cache")}
}

// Embed returns the cached vector for text when present, otherwise embeds and stores it.
func (c *Cached) Embed(ctx context.Context, text string) Vector {
	if !c.Available() {
		return c.Provider.Embed(ctx, text)
	}

	dim := c.Dimension()
	key := CacheKey(c.Model(), dim, text)

	cached, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("embedding cache read failed", zap.Error(err))
	case ok && len(cached) == dim:
		return cached
	}

	v := c.Provider.Embed(ctx, text)
	if !IsZero(v) {
		if err := c.cache.Set(ctx, key, v); err != nil {
			c.logger.Warn("embedding cache write failed", zap.Error(err))
		}
	}
	return v
}

// RedisCache is a Cache backed by Redis string keys holding JSON arrays.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url (redis://...).
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the vector stored at key.
func (r *RedisCache) Get(ctx context.Context, key string) (Vector, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var v Vector
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores v at key with the configured TTL.
func (r *RedisCache) Set(ctx context.Context, key string, v Vector) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Close closes the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
