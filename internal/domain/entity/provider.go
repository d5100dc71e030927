package entity

import (
	"fmt"
	"strings"
)

// Provider LLM 提供商
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderXAI    Provider = "xai"
)

// FallbackOrder 回退优先级，质量优先，顺序固定
var FallbackOrder = []Provider{ProviderClaude, ProviderGemini, ProviderOpenAI, ProviderXAI}

// ParseProvider 解析提供商名称
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderClaude, ProviderOpenAI, ProviderGemini, ProviderXAI:
		return p, nil
	case "anthropic":
		return ProviderClaude, nil
	case "grok":
		return ProviderXAI, nil
	default:
		return "", fmt.Errorf("unsupported provider: %q", s)
	}
}

func (p Provider) String() string {
	return string(p)
}

// ProviderInfo 提供商展示信息
type ProviderInfo struct {
	Provider    Provider `json:"provider"`
	Name        string   `json:"name"`
	Model       string   `json:"model"`
	Available   bool     `json:"available"`
	Description string   `json:"description"`
	Cost        string   `json:"cost"`
}
