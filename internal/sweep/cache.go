package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/internal/weighting"
	pkgredis "github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/redis"
)

// cacheVersion changes whenever tokenization, stemming or scoring changes in
// a way that invalidates previously stored scores.
const (
	cacheKeyPrefix = "smart:map:"
	cacheVersion   = "v1"
)

// ScoreCache stores MAP scores across runs. Failures are logged by the
// implementation and reported as misses; a cache never fails a sweep.
type ScoreCache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, score float64)
}

// CacheKey identifies one configuration of one corpus by content.
func CacheKey(fingerprint string, pair weighting.Pair, stemming bool, opts weighting.Options) string {
	return fmt.Sprintf("%s%s:%s:%s:stem=%t:aug=%t",
		cacheKeyPrefix, cacheVersion, fingerprint, pair, stemming, opts.TrueAugmentedTF)
}

// RedisScoreCache keeps scores in Redis with a fixed TTL.
type RedisScoreCache struct {
	client *pkgredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisScoreCache(client *pkgredis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "score-cache"),
	}
}

func (c *RedisScoreCache) Get(ctx context.Context, key string) (float64, bool) {
	score, ok, err := c.client.GetFloat(ctx, key)
	if err != nil {
		c.logger.Error("cache get failed", "key", key, "error", err)
		return 0, false
	}
	return score, ok
}

func (c *RedisScoreCache) Set(ctx context.Context, key string, score float64) {
	if err := c.client.SetFloat(ctx, key, score, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops every stored score.
func (c *RedisScoreCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, cacheKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating score cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}
