package llm

import (
	"context"
	"fmt"

	"social-ai-api/internal/config"
	"social-ai-api/internal/domain/entity"
	"social-ai-api/pkg/logger"
)

// slot 回退顺序中的一个位置，adapter 为空表示未配置
type slot struct {
	provider entity.Provider
	adapter  Adapter
}

// Pool 按固定回退顺序持有各提供商的适配器
type Pool struct {
	slots []slot
}

// NewPool 由调用方直接提供适配器，未出现的提供商视为未配置
func NewPool(adapters ...Adapter) *Pool {
	byProvider := make(map[entity.Provider]Adapter, len(adapters))
	for _, a := range adapters {
		if a != nil {
			byProvider[a.Provider()] = a
		}
	}

	p := &Pool{slots: make([]slot, 0, len(entity.FallbackOrder))}
	for _, provider := range entity.FallbackOrder {
		p.slots = append(p.slots, slot{provider: provider, adapter: byProvider[provider]})
	}
	return p
}

// BuildPool 按配置构建适配器池。
// 单个提供商构造失败只会使其不可用并记录日志，不会中断进程。
func BuildPool(ctx context.Context, cfg config.LLMConfig, rotators RotatorFactory) *Pool {
	if rotators == nil {
		rotators = MemoryRotators
	}

	adapters := make([]Adapter, 0, len(entity.FallbackOrder))
	for _, provider := range entity.FallbackOrder {
		providerCfg, _ := cfg.Provider(string(provider))
		a, err := newAdapter(provider, providerCfg, providerCfg.Keys(), rotators)
		if err != nil {
			logger.Warn(ctx, "llm provider unavailable", "provider", providerName(provider), "error", err.Error())
			continue
		}
		logger.Info(ctx, "llm provider configured", "provider", providerName(provider), "model", a.Model())
		adapters = append(adapters, Instrument(a))
	}
	return NewPool(adapters...)
}

// newAdapter 按提供商构造适配器
func newAdapter(provider entity.Provider, cfg config.ProviderConfig, keys []string, rotators RotatorFactory) (Adapter, error) {
	switch provider {
	case entity.ProviderClaude:
		return NewClaudeAdapter(SettingsFrom(cfg, claudeDefaults))
	case entity.ProviderOpenAI:
		return NewOpenAIAdapter(entity.ProviderOpenAI, SettingsFrom(cfg, openAIDefaults))
	case entity.ProviderXAI:
		return NewXAIAdapter(SettingsFrom(cfg, xaiDefaults))
	case entity.ProviderGemini:
		if len(keys) == 0 {
			return nil, fmt.Errorf("gemini: %w", ErrNoCredentials)
		}
		return NewGeminiAdapter(rotators(entity.ProviderGemini, keys), SettingsFrom(cfg, geminiDefaults))
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Get 返回已配置的适配器
func (p *Pool) Get(provider entity.Provider) (Adapter, bool) {
	for _, s := range p.slots {
		if s.provider == provider {
			return s.adapter, s.adapter != nil
		}
	}
	return nil, false
}

// Available 提供商是否已配置
func (p *Pool) Available(provider entity.Provider) bool {
	_, ok := p.Get(provider)
	return ok
}

// Configured 按回退顺序返回已配置的提供商
func (p *Pool) Configured() []entity.Provider {
	out := make([]entity.Provider, 0, len(p.slots))
	for _, s := range p.slots {
		if s.adapter != nil {
			out = append(out, s.provider)
		}
	}
	return out
}

// providerDescriptions 提供商展示文案
var providerDescriptions = map[entity.Provider]entity.ProviderInfo{
	entity.ProviderClaude: {
		Name:        "Claude 4 Sonnet",
		Description: "Anthropic's most capable model, excellent for nuanced content",
		Cost:        "Higher cost, premium quality",
	},
	entity.ProviderOpenAI: {
		Name:        "GPT-4o Mini",
		Description: "OpenAI's efficient model, good balance of speed and quality",
		Cost:        "Low cost, good performance",
	},
	entity.ProviderGemini: {
		Name:        "Gemini 2.5 Flash",
		Description: "Google's fast model with multiple API keys for rate limiting",
		Cost:        "Free tier available, very cost effective",
	},
	entity.ProviderXAI: {
		Name:        "Grok Beta",
		Description: "X's AI model with real-time data and humor capabilities",
		Cost:        "Competitive pricing, good for X content",
	},
}

// Infos 按回退顺序返回提供商信息
func (p *Pool) Infos() []entity.ProviderInfo {
	out := make([]entity.ProviderInfo, 0, len(p.slots))
	for _, s := range p.slots {
		info := providerDescriptions[s.provider]
		info.Provider = s.provider
		info.Available = s.adapter != nil
		if s.adapter != nil {
			info.Model = s.adapter.Model()
		}
		out = append(out, info)
	}
	return out
}
