package redis

import (
	"context"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/llm"
	"social-ai-api/pkg/logger"
	"social-ai-api/pkg/metrics"
)

// KeyRotator 基于 Redis INCR 的共享游标轮换器，多个副本共同分摊同一凭据池。
// Redis 不可用时退回进程内轮换。
type KeyRotator struct {
	client   *Client
	key      string
	provider entity.Provider
	keys     []string
	local    *llm.KeyRotator
}

// NewKeyRotator 创建共享游标轮换器
func NewKeyRotator(client *Client, prefix string, provider entity.Provider, keys []string) *KeyRotator {
	return &KeyRotator{
		client:   client,
		key:      prefix + string(provider),
		provider: provider,
		keys:     append([]string(nil), keys...),
		local:    llm.NewKeyRotator(provider, keys),
	}
}

// Next 返回下一个凭据
func (r *KeyRotator) Next(ctx context.Context) (string, error) {
	if len(r.keys) == 0 {
		return "", llm.ErrNoCredentials
	}

	n, err := r.client.Incr(ctx, r.key)
	if err != nil {
		logger.Warn(ctx, "shared key cursor unavailable, rotating locally", "provider", string(r.provider), "error", err.Error())
		return r.local.Next(ctx)
	}

	metrics.KeyRotations.WithLabelValues(string(r.provider), "redis").Inc()
	// INCR 从 1 开始
	idx := (n - 1) % int64(len(r.keys))
	if idx < 0 {
		idx += int64(len(r.keys))
	}
	return r.keys[idx], nil
}

// Len 返回凭据数量
func (r *KeyRotator) Len() int {
	return len(r.keys)
}

// RotatorFactory 返回绑定到该客户端的 llm.RotatorFactory
func RotatorFactory(client *Client, prefix string) llm.RotatorFactory {
	return func(provider entity.Provider, keys []string) llm.Rotator {
		return NewKeyRotator(client, prefix, provider, keys)
	}
}

var _ llm.Rotator = (*KeyRotator)(nil)
