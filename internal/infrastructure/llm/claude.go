package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"social-ai-api/internal/domain/entity"
	"social-ai-api/pkg/metrics"
)

// ClaudeAdapter Anthropic Messages API 适配器，客户端构造后复用
type ClaudeAdapter struct {
	client anthropic.Client
	cfg    Settings
}

// NewClaudeAdapter 创建 Claude 适配器
func NewClaudeAdapter(s Settings) (*ClaudeAdapter, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("claude: %w", ErrNoCredentials)
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

	return &ClaudeAdapter{
		client: anthropic.NewClient(opts...),
		cfg:    s,
	}, nil
}

func (a *ClaudeAdapter) Provider() entity.Provider { return entity.ProviderClaude }

func (a *ClaudeAdapter) Model() string { return a.cfg.Model }

// Send 发送一次请求，拼接所有 text 块
func (a *ClaudeAdapter) Send(ctx context.Context, p Prompt) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(a.cfg.maxTokens(p)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		},
		Temperature: anthropic.Float(a.cfg.temperature(p)),
	}
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: p.System}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapError(entity.ProviderClaude, a.cfg.Model, err)
	}
	metrics.ObserveTokens(string(entity.ProviderClaude), a.cfg.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", wrapError(entity.ProviderClaude, a.cfg.Model, ErrEmptyResponse)
	}
	return sb.String(), nil
}
