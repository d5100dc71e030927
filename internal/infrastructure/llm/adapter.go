// Package llm 提供各 LLM 提供商的统一适配层
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"

	"social-ai-api/internal/config"
	"social-ai-api/internal/domain/entity"
)

// Prompt 单次调用的提示词
type Prompt struct {
	System string
	User   string
	// Temperature 为空时使用提供商默认值
	Temperature *float64
	// MaxTokens 为 0 时使用提供商默认值
	MaxTokens int
}

// Adapter 单个 LLM 提供商的统一调用能力
type Adapter interface {
	Provider() entity.Provider
	Model() string
	Send(ctx context.Context, p Prompt) (string, error)
}

var (
	// ErrNoCredentials 凭据池为空
	ErrNoCredentials = errors.New("llm: no credentials configured")
	// ErrEmptyResponse 提供商返回空内容
	ErrEmptyResponse = errors.New("llm: empty response")
)

// ProviderError 单个提供商调用失败
type ProviderError struct {
	Provider   entity.Provider
	Model      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%s) failed with status %d: %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (%s) failed: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable 限流或服务端错误可重试
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// wrapError 将 SDK 错误包装为 ProviderError 并提取 HTTP 状态码
func wrapError(provider entity.Provider, model string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{
		Provider:   provider,
		Model:      model,
		StatusCode: statusCode(err),
		Err:        err,
	}
}

func statusCode(err error) int {
	var oaErr *openai.Error
	if errors.As(err, &oaErr) {
		return oaErr.StatusCode
	}
	var anErr *anthropic.Error
	if errors.As(err, &anErr) {
		return anErr.StatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) {
		return gErrPtr.Code
	}
	return 0
}

// Settings 适配器公共参数
type Settings struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func SettingsFrom(cfg config.ProviderConfig, defaults Settings) Settings {
	s := defaults
	if len(cfg.Keys()) > 0 {
		s.APIKey = cfg.Keys()[0]
	}
	if cfg.BaseURL != "" {
		s.BaseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		s.Model = cfg.Model
	}
	if cfg.MaxTokens > 0 {
		s.MaxTokens = cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		s.Temperature = cfg.Temperature
	}
	if cfg.Timeout > 0 {
		s.Timeout = cfg.Timeout
	}
	return s
}

func (s Settings) temperature(p Prompt) float64 {
	if p.Temperature != nil {
		return *p.Temperature
	}
	return s.Temperature
}

func (s Settings) maxTokens(p Prompt) int {
	if p.MaxTokens > 0 {
		return p.MaxTokens
	}
	return s.MaxTokens
}

// DefaultSettings 返回提供商默认参数
func DefaultSettings(provider entity.Provider) Settings {
	switch provider {
	case entity.ProviderClaude:
		return claudeDefaults
	case entity.ProviderOpenAI:
		return openAIDefaults
	case entity.ProviderXAI:
		return xaiDefaults
	case entity.ProviderGemini:
		return geminiDefaults
	default:
		return Settings{}
	}
}

// 各提供商默认参数
var (
	claudeDefaults = Settings{Model: "claude-sonnet-4-20250514", MaxTokens: 2000, Temperature: 0.7, Timeout: 60 * time.Second}
	openAIDefaults = Settings{Model: "gpt-4o-mini", MaxTokens: 1000, Temperature: 0.7, Timeout: 60 * time.Second}
	xaiDefaults    = Settings{BaseURL: "https://api.x.ai/v1", Model: "grok-beta", MaxTokens: 1000, Temperature: 0.7, Timeout: 60 * time.Second}
	geminiDefaults = Settings{Model: "gemini-2.5-flash", MaxTokens: 1000, Temperature: 0.7, Timeout: 60 * time.Second}
)
