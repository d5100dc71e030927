//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"social-ai-api/internal/config"
	"social-ai-api/internal/interfaces/http/router"
)

// InitializeApp 初始化 API 网关（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		LLMSet,
		PublishSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化发布 worker，Redis 为必需依赖
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		ProvideRedisClient,
		PublishSet,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}
