package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voicescribe/internal/app/model"
	"voicescribe/internal/config"
)

// ResultCache memoizes transcript records by payload identity so identical
// uploads skip the provider call. Lookups and stores are both best-effort:
// the pipeline works identically with a cold or unavailable cache.
type ResultCache interface {
	Get(ctx context.Context, key string) (*model.TranscriptRecord, bool)
	Set(ctx context.Context, key string, rec *model.TranscriptRecord)
}

// Key builds the cache key for a payload hash and language pair.
func Key(payloadHash, language string) string {
	return fmt.Sprintf("voicescribe:transcript:%s:%s", language, payloadHash)
}

// RedisCache implements ResultCache on Redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates the shared Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisCache creates a Redis-backed result cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached record for key, if any.
func (c *RedisCache) Get(ctx context.Context, key string) (*model.TranscriptRecord, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var rec model.TranscriptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false
	}
	return &rec, true
}

// Set stores the record under key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, rec *model.TranscriptRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// NoopCache is used when no Redis address is configured.
type NoopCache struct{}

// NewNoopCache creates a cache that never hits.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(ctx context.Context, key string) (*model.TranscriptRecord, bool) {
	return nil, false
}

func (NoopCache) Set(ctx context.Context, key string, rec *model.TranscriptRecord) {}
