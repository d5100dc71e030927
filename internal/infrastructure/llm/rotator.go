package llm

import (
	"context"
	"sync"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/pkg/metrics"
)

// Rotator 在一组等价凭据之间轮换
type Rotator interface {
	// Next 返回下一个凭据，池为空时返回 ErrNoCredentials
	Next(ctx context.Context) (string, error)
	Len() int
}

// KeyRotator 进程内轮换器，按插入顺序循环，游标更新由互斥锁保护
type KeyRotator struct {
	provider entity.Provider
	mu       sync.Mutex
	keys     []string
	cursor   int
}

// NewKeyRotator 创建进程内轮换器，keys 会被复制
func NewKeyRotator(provider entity.Provider, keys []string) *KeyRotator {
	return &KeyRotator{
		provider: provider,
		keys:     append([]string(nil), keys...),
	}
}

// Next 返回当前游标处的凭据并前移游标
func (r *KeyRotator) Next(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.keys) == 0 {
		return "", ErrNoCredentials
	}
	key := r.keys[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.keys)
	metrics.KeyRotations.WithLabelValues(string(r.provider), "memory").Inc()
	return key, nil
}

// Len 返回凭据数量
func (r *KeyRotator) Len() int {
	return len(r.keys)
}

// Keys 返回凭据副本
func (r *KeyRotator) Keys() []string {
	return append([]string(nil), r.keys...)
}

// RotatorFactory 按提供商与凭据池创建轮换器
type RotatorFactory func(provider entity.Provider, keys []string) Rotator

// MemoryRotators 默认的进程内轮换器工厂
func MemoryRotators(provider entity.Provider, keys []string) Rotator {
	return NewKeyRotator(provider, keys)
}
