package main

import (
	"context"

	"social-ai-api/internal/application/generation"
	"social-ai-api/internal/config"
	"social-ai-api/internal/infrastructure/llm"
	"social-ai-api/internal/wire"
	"social-ai-api/pkg/logger"
)

type rootOptions struct {
	configDir string
	json      bool
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configDir != "" {
		return config.LoadFrom(o.configDir)
	}
	return config.Load()
}

// newService 构造不依赖 Redis 的生成服务，日志输出到 stderr 避免混入结果
func (o *rootOptions) newService(ctx context.Context) (*generation.Service, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger.Init("warn", "text")

	pool := wire.ProvideLLMPool(ctx, cfg, llm.MemoryRotators)
	researcher := wire.ProvideResearchProvider(ctx, cfg, nil)
	svc := wire.ProvideGenerationService(pool, wire.ProvideAdapterFactory(cfg), researcher)
	return svc, cfg, nil
}
