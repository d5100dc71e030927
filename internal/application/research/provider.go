// Package research 为内容生成提供话题研究与热点发现
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"social-ai-api/internal/config"
	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/infrastructure/llm"
	apperrors "social-ai-api/pkg/errors"
	"social-ai-api/pkg/metrics"
)

// ProviderPerplexity 研究服务提供商标识，仅用于日志与指标
const ProviderPerplexity entity.Provider = "perplexity"

const (
	defaultBaseURL        = "https://api.perplexity.ai"
	defaultModel          = "sonar-pro"
	trendingTemperature   = 0.3
	trendingMaxTokens     = 1000
	researchSystemMessage = `You are a research assistant. Provide comprehensive research on the given topic with:
1. Key facts and statistics
2. Recent developments and trends
3. Expert opinions and insights
4. Relevant data points
5. Source citations

Format your response as structured information that can be used for social media content creation.`
	trendingSystemMessage = "You are a trend analyst. Provide a list of current trending topics that are suitable for social media content creation."
)

// Provider 研究能力
type Provider interface {
	Research(ctx context.Context, topic, additionalContext string) (*entity.ResearchBundle, error)
	TrendingTopics(ctx context.Context, category string) ([]string, error)
}

// PerplexityProvider 通过 OpenAI 兼容接口调用 Perplexity
type PerplexityProvider struct {
	adapter llm.Adapter
	now     func() time.Time
}

// NewPerplexityProvider 根据配置创建研究服务
func NewPerplexityProvider(cfg config.ResearchConfig) (*PerplexityProvider, error) {
	s := llm.Settings{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}
	if s.BaseURL == "" {
		s.BaseURL = defaultBaseURL
	}
	if s.Model == "" {
		s.Model = defaultModel
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = 2000
	}
	if s.Temperature <= 0 {
		s.Temperature = 0.2
	}

	adapter, err := llm.NewOpenAIAdapter(ProviderPerplexity, s)
	if err != nil {
		return nil, err
	}
	return NewProvider(llm.Instrument(adapter)), nil
}

// NewProvider 使用任意适配器创建研究服务
func NewProvider(adapter llm.Adapter) *PerplexityProvider {
	return &PerplexityProvider{
		adapter: adapter,
		now:     time.Now,
	}
}

// Research 研究话题，返回要点与来源
func (p *PerplexityProvider) Research(ctx context.Context, topic, additionalContext string) (*entity.ResearchBundle, error) {
	content, err := p.adapter.Send(ctx, llm.Prompt{
		System: researchSystemMessage,
		User:   Query(topic, additionalContext),
	})
	if err != nil {
		metrics.ResearchTotal.WithLabelValues("error").Inc()
		return nil, apperrors.ErrResearchFailed.WithError(err)
	}
	metrics.ResearchTotal.WithLabelValues("success").Inc()

	bundle := Parse(content, topic)
	bundle.Timestamp = p.now().UTC()
	return bundle, nil
}

// TrendingTopics 获取热点话题，category 可为空
func (p *PerplexityProvider) TrendingTopics(ctx context.Context, category string) ([]string, error) {
	temperature := trendingTemperature
	content, err := p.adapter.Send(ctx, llm.Prompt{
		System:      trendingSystemMessage,
		User:        trendingQuery(category),
		Temperature: &temperature,
		MaxTokens:   trendingMaxTokens,
	})
	if err != nil {
		return nil, apperrors.ErrResearchFailed.WithError(err)
	}
	return ExtractTopics(content), nil
}

// Query 构造研究请求文本
func Query(topic, additionalContext string) string {
	parts := []string{
		"Research the topic: " + strings.TrimSpace(topic),
		"",
		"Please provide:",
		"1. Latest statistics and data points",
		"2. Recent news and developments",
		"3. Key trends and insights",
		"4. Expert opinions and quotes",
		"5. Relevant facts for social media content",
	}
	if ctx := strings.TrimSpace(additionalContext); ctx != "" {
		parts = append(parts, "", "Additional context: "+ctx)
	}
	return strings.Join(parts, "\n")
}

func trendingQuery(category string) string {
	q := "What are the current trending topics"
	if c := strings.TrimSpace(category); c != "" {
		q += fmt.Sprintf(" in %s", c)
	}
	return q + " that would be good for social media content?"
}

var _ Provider = (*PerplexityProvider)(nil)
