package research

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/persistence/redis"
	"social-ai-api/pkg/logger"
	"social-ai-api/pkg/metrics"
)

const defaultCacheTTL = 30 * time.Minute

// CachedProvider 为研究结果增加 Redis 缓存，同一话题的并发请求只调用一次上游
type CachedProvider struct {
	inner Provider
	cache *redis.Cache
	ttl   time.Duration
}

// NewCachedProvider 创建带缓存的研究服务
func NewCachedProvider(inner Provider, cache *redis.Cache, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedProvider{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// Research 优先读取缓存
func (c *CachedProvider) Research(ctx context.Context, topic, additionalContext string) (*entity.ResearchBundle, error) {
	bundle, hit, err := redis.GetOrLoadJSON(ctx, c.cache, cacheKey("topic", topic, additionalContext), c.ttl,
		func(ctx context.Context) (*entity.ResearchBundle, error) {
			return c.inner.Research(ctx, topic, additionalContext)
		})
	if err != nil {
		return nil, err
	}
	if hit {
		metrics.ResearchTotal.WithLabelValues("cache_hit").Inc()
		logger.Debug(ctx, "research served from cache", "topic", topic)
	}
	return bundle, nil
}

// TrendingTopics 优先读取缓存
func (c *CachedProvider) TrendingTopics(ctx context.Context, category string) ([]string, error) {
	topics, _, err := redis.GetOrLoadJSON(ctx, c.cache, cacheKey("trending", category), c.ttl,
		func(ctx context.Context) ([]string, error) {
			return c.inner.TrendingTopics(ctx, category)
		})
	return topics, err
}

// cacheKey 规范化输入后取摘要，避免长文本进入键名
func cacheKey(kind string, parts ...string) string {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = strings.ToLower(strings.TrimSpace(p))
	}
	sum := sha256.Sum256([]byte(strings.Join(norm, "\x00")))
	return kind + ":" + hex.EncodeToString(sum[:12])
}

var _ Provider = (*CachedProvider)(nil)
