// Package generation 实现多提供商内容生成流程
package generation

import (
	"context"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/llm"
	"social-ai-api/pkg/logger"
	"social-ai-api/pkg/metrics"
)

// AdapterSource 按提供商查找已配置的适配器
type AdapterSource interface {
	Get(provider entity.Provider) (llm.Adapter, bool)
}

// Output 编排结果
type Output struct {
	Text     string
	Provider entity.Provider
	Model    string
}

// Orchestrator 首选提供商失败后按固定顺序回退
type Orchestrator struct {
	adapters AdapterSource
}

// NewOrchestrator 创建回退编排器
func NewOrchestrator(adapters AdapterSource) *Orchestrator {
	return &Orchestrator{adapters: adapters}
}

// Generate 先调用首选提供商，失败或未配置时按 entity.FallbackOrder 依次尝试，
// 跳过刚尝试过的提供商与未配置的提供商。override 非空时代替池中的首选适配器。
// 只有全部失败时才返回 *AllProvidersFailedError；ctx 取消时直接返回 ctx 错误。
func (o *Orchestrator) Generate(ctx context.Context, preferred entity.Provider, p llm.Prompt, override llm.Adapter) (Output, error) {
	var (
		tried    entity.Provider
		attempts []ProviderAttempt
	)

	first := override
	if first == nil {
		first, _ = o.adapters.Get(preferred)
	}
	if first != nil {
		tried = preferred
		out, err := o.attempt(ctx, first, p)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Output{}, ctxErr
		}
		attempts = append(attempts, ProviderAttempt{Provider: preferred, Err: err})
		logger.Warn(ctx, "preferred provider failed, falling back", "provider", string(preferred), "error", err.Error())
	}

	for _, provider := range entity.FallbackOrder {
		if provider == tried {
			continue
		}
		adapter, ok := o.adapters.Get(provider)
		if !ok {
			continue
		}

		out, err := o.attempt(ctx, adapter, p)
		if err == nil {
			metrics.FallbackTotal.WithLabelValues(string(preferred), string(provider)).Inc()
			logger.Info(ctx, "fallback provider succeeded", "preferred", string(preferred), "provider", string(provider))
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Output{}, ctxErr
		}
		attempts = append(attempts, ProviderAttempt{Provider: provider, Err: err})
		logger.Warn(ctx, "fallback provider failed", "provider", string(provider), "error", err.Error())
	}

	return Output{}, &AllProvidersFailedError{Preferred: preferred, Attempts: attempts}
}

func (o *Orchestrator) attempt(ctx context.Context, a llm.Adapter, p llm.Prompt) (Output, error) {
	text, err := a.Send(ctx, p)
	if err != nil {
		return Output{}, err
	}
	return Output{Text: text, Provider: a.Provider(), Model: a.Model()}, nil
}
