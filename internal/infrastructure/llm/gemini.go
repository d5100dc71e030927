package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/pkg/metrics"
)

// GeminiAdapter Gemini 适配器。
// 每次调用先从轮换器取下一个凭据，再构造仅作用于本次调用的客户端，客户端不缓存。
type GeminiAdapter struct {
	rotator Rotator
	cfg     Settings
}

// NewGeminiAdapter 创建 Gemini 适配器
func NewGeminiAdapter(rotator Rotator, s Settings) (*GeminiAdapter, error) {
	if rotator == nil || rotator.Len() == 0 {
		return nil, fmt.Errorf("gemini: %w", ErrNoCredentials)
	}
	return &GeminiAdapter{rotator: rotator, cfg: s}, nil
}

func (a *GeminiAdapter) Provider() entity.Provider { return entity.ProviderGemini }

func (a *GeminiAdapter) Model() string { return a.cfg.Model }

// Send 使用轮换出的凭据发送一次 GenerateContent 请求
func (a *GeminiAdapter) Send(ctx context.Context, p Prompt) (string, error) {
	key, err := a.rotator.Next(ctx)
	if err != nil {
		return "", wrapError(entity.ProviderGemini, a.cfg.Model, err)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if a.cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = a.cfg.BaseURL
	}
	if a.cfg.Timeout > 0 {
		timeout := a.cfg.Timeout
		clientCfg.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", wrapError(entity.ProviderGemini, a.cfg.Model, err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(a.cfg.temperature(p))),
		MaxOutputTokens: int32(a.cfg.maxTokens(p)),
	}
	if p.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, a.cfg.Model, genai.Text(p.User), genCfg)
	if err != nil {
		return "", wrapError(entity.ProviderGemini, a.cfg.Model, err)
	}
	if resp.UsageMetadata != nil {
		metrics.ObserveTokens(string(entity.ProviderGemini), a.cfg.Model,
			int64(resp.UsageMetadata.PromptTokenCount), int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", wrapError(entity.ProviderGemini, a.cfg.Model, ErrEmptyResponse)
	}
	return text, nil
}
