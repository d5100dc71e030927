package generation

import (
	"fmt"
	"strings"

	"social-ai-api/internal/domain/entity"
)

// ProviderAttempt 一次提供商调用的结果
type ProviderAttempt struct {
	Provider entity.Provider
	Err      error
}

// AllProvidersFailedError 所有已配置的提供商均失败，或没有任何提供商可用
type AllProvidersFailedError struct {
	Preferred entity.Provider
	Attempts  []ProviderAttempt
}

func (e *AllProvidersFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all providers failed: no llm provider is configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Provider, a.Err))
	}
	return fmt.Sprintf("all providers failed (preferred %s): %s", e.Preferred, strings.Join(parts, "; "))
}

// PlatformError 单个平台生成失败，错误信息包含平台名与原因
type PlatformError struct {
	Platform entity.Platform
	Err      error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("content generation failed for %s: %v", e.Platform, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}
