package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/database"
	commonErrors "github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/errors"
	"github.com/vishwaD06/voice-to-action-ai-pipeline/internal/common/logger"
)

const cacheKeyPrefix = "voice:parse:"

// Cache stores parse results in Redis keyed by the normalized query text,
// so rephrasings that normalize identically share an entry. It is strictly
// best-effort: every failure is logged and swallowed.
type Cache struct {
	redis *database.RedisClient
	ttl   time.Duration
	log   logger.Logger
}

// NewCache wraps a Redis client as a parse-result cache.
func NewCache(redisClient *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Cache{redis: redisClient, ttl: ttl, log: log}
}

// Get returns the cached result for a normalized query, if present.
func (c *Cache) Get(ctx context.Context, normalized string) (*Result, bool) {
	raw, err := c.redis.Get(ctx, cacheKeyPrefix+normalized)
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(commonErrors.NewCacheUnavailableError(err)).Warn("parse cache read failed", nil)
		}
		return nil, false
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.log.Warn("parse cache entry is not valid JSON, dropping it", map[string]interface{}{
			"error": err.Error(),
		})
		_ = c.redis.Del(ctx, cacheKeyPrefix+normalized)
		return nil, false
	}
	return &result, true
}

// Put stores a parse result under the normalized query text.
func (c *Cache) Put(ctx context.Context, normalized string, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("failed to encode parse result for cache", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := c.redis.Set(ctx, cacheKeyPrefix+normalized, string(data), c.ttl); err != nil {
		c.log.WithError(commonErrors.NewCacheUnavailableError(err)).Warn("parse cache write failed", nil)
	}
}
