package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/pkg/metrics"
)

// OpenAIAdapter OpenAI 兼容 Chat Completions 适配器，同时服务 OpenAI 与 X.AI
type OpenAIAdapter struct {
	provider entity.Provider
	client   openai.Client
	cfg      Settings
}

// NewOpenAIAdapter 创建 OpenAI 兼容适配器
func NewOpenAIAdapter(provider entity.Provider, s Settings) (*OpenAIAdapter, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", provider, ErrNoCredentials)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(1),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	if s.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(s.Timeout))
	}

	return &OpenAIAdapter{
		provider: provider,
		client:   openai.NewClient(opts...),
		cfg:      s,
	}, nil
}

// NewXAIAdapter 创建 X.AI 适配器，仅地址与模型不同
func NewXAIAdapter(s Settings) (*OpenAIAdapter, error) {
	if s.BaseURL == "" {
		s.BaseURL = xaiDefaults.BaseURL
	}
	return NewOpenAIAdapter(entity.ProviderXAI, s)
}

func (a *OpenAIAdapter) Provider() entity.Provider { return a.provider }

func (a *OpenAIAdapter) Model() string { return a.cfg.Model }

// Send 发送一次 Chat Completions 请求
func (a *OpenAIAdapter) Send(ctx context.Context, p Prompt) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if p.System != "" {
		messages = append(messages, openai.SystemMessage(p.System))
	}
	messages = append(messages, openai.UserMessage(p.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.cfg.Model),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(a.cfg.maxTokens(p))),
		Temperature: openai.Float(a.cfg.temperature(p)),
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(a.provider, a.cfg.Model, err)
	}
	metrics.ObserveTokens(string(a.provider), a.cfg.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", wrapError(a.provider, a.cfg.Model, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
