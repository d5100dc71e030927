// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"social-ai-api/internal/application/generation"
	"social-ai-api/internal/application/publishing"
	"social-ai-api/internal/application/research"
	"social-ai-api/internal/config"
	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/llm"
	"social-ai-api/internal/infrastructure/messaging"
	"social-ai-api/internal/infrastructure/persistence/redis"
	"social-ai-api/internal/infrastructure/publisher"
	"social-ai-api/internal/interfaces/http/handler"
	"social-ai-api/internal/interfaces/http/middleware"
	"social-ai-api/internal/interfaces/http/router"
	"social-ai-api/pkg/logger"
)

const researchCachePrefix = "research:"

// Worker 发布 worker 依赖容器
type Worker struct {
	RedisClient *redis.Client
	Dispatcher  *publishing.Dispatcher
}

// RedisSet Redis 提供者集合（API 网关可选）
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideRateLimiter,
)

// LLMSet 提供商池与请求级适配器工厂
var LLMSet = wire.NewSet(
	ProvideRotatorFactory,
	ProvideLLMPool,
	ProvideAdapterFactory,
)

// PublishSet 发布分发
var PublishSet = wire.NewSet(
	ProvidePublishQueue,
	ProvidePublishAdapters,
	ProvideDispatcher,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideResearchProvider,
	ProvideGenerationService,
	ProvideHealthHandler,
	ProvideContentHandler,
	handler.NewResearchHandler,
	handler.NewPublishHandler,
	wire.Bind(new(handler.Publisher), new(*publishing.Dispatcher)),
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional 未启用或不可达时返回 nil，依赖 Redis 的能力随之降级
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, cache/rate limit/async publish disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 无 Redis 时不限流
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideRotatorFactory 按配置选择密钥游标存储
func ProvideRotatorFactory(ctx context.Context, cfg *config.Config, client *redis.Client) llm.RotatorFactory {
	if cfg.LLM.KeyRotation.Backend != "redis" {
		return llm.MemoryRotators
	}
	if client == nil {
		logger.Warn(ctx, "redis key rotation requested without redis, using in-memory cursor")
		return llm.MemoryRotators
	}
	return redis.RotatorFactory(client, cfg.LLM.KeyRotation.KeyPrefix)
}

// ProvideLLMPool 提供商适配器池
func ProvideLLMPool(ctx context.Context, cfg *config.Config, rotators llm.RotatorFactory) *llm.Pool {
	return llm.BuildPool(ctx, cfg.LLM, rotators)
}

// ProvideAdapterFactory 请求级凭据适配器工厂
func ProvideAdapterFactory(cfg *config.Config) *llm.Factory {
	return llm.NewFactory(cfg.LLM)
}

// ProvideResearchProvider 未启用或缺少密钥时返回 nil；有 Redis 时叠加缓存
func ProvideResearchProvider(ctx context.Context, cfg *config.Config, client *redis.Client) research.Provider {
	if !cfg.Research.Enabled || cfg.Research.APIKey == "" {
		logger.Info(ctx, "research disabled")
		return nil
	}
	p, err := research.NewPerplexityProvider(cfg.Research)
	if err != nil {
		logger.Warn(ctx, "research provider unavailable", "error", err.Error())
		return nil
	}
	if client == nil {
		return p
	}
	return research.NewCachedProvider(p, redis.NewCache(client, researchCachePrefix), cfg.Research.CacheTTL)
}

// ProvideGenerationService 内容生成服务
func ProvideGenerationService(pool *llm.Pool, factory *llm.Factory, researcher research.Provider) *generation.Service {
	opts := []generation.Option{generation.WithAdapterFactory(factory)}
	if researcher != nil {
		opts = append(opts, generation.WithResearcher(researcher))
	}
	return generation.NewService(generation.NewOrchestrator(pool), pool, opts...)
}

// ProvidePublishQueue 无 Redis 时不支持异步发布
func ProvidePublishQueue(cfg *config.Config, client *redis.Client) publishing.Enqueuer {
	if client == nil {
		return nil
	}
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(client.Redis(), int64(maxLen))
}

// ProvidePublishAdapters 各平台发布适配器
func ProvidePublishAdapters(cfg *config.Config) []publisher.Adapter {
	return []publisher.Adapter{
		publisher.NewXAdapter(cfg.Publish.Twitter, cfg.Publish.Timeout),
		publisher.NewLinkedInAdapter(cfg.Publish.LinkedIn, cfg.Publish.Timeout),
	}
}

// ProvideDispatcher 发布分发器
func ProvideDispatcher(queue publishing.Enqueuer, adapters []publisher.Adapter) *publishing.Dispatcher {
	return publishing.NewDispatcher(queue, adapters...)
}

// ProvideHealthHandler 健康检查处理器
func ProvideHealthHandler(cfg *config.Config, client *redis.Client, pool *llm.Pool) *handler.HealthHandler {
	var checker handler.HealthChecker
	if client != nil {
		checker = client
	}
	return handler.NewHealthHandler(cfg.App.Version, checker, pool)
}

// ProvideContentHandler 内容处理器，默认提供商无法解析时回到 claude
func ProvideContentHandler(ctx context.Context, cfg *config.Config, svc *generation.Service) *handler.ContentHandler {
	def, err := entity.ParseProvider(cfg.LLM.DefaultProvider)
	if err != nil {
		logger.Warn(ctx, "invalid default provider, using claude", "value", cfg.LLM.DefaultProvider)
		def = entity.ProviderClaude
	}
	return handler.NewContentHandler(svc, def)
}
