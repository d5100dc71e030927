package dto

import (
	"social-ai-api/internal/domain/entity"
)

// GenerateRequest 内容生成请求
type GenerateRequest struct {
	Topic     string   `json:"topic" binding:"required"`
	Platforms []string `json:"platforms" binding:"required,min=1"`
	// AIProvider 为空时使用配置的默认提供商
	AIProvider        string `json:"ai_provider,omitempty"`
	IncludeResearch   *bool  `json:"include_research,omitempty"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// ResearchEnabled 未指定时默认开启研究
func (r *GenerateRequest) ResearchEnabled() bool {
	return r.IncludeResearch == nil || *r.IncludeResearch
}

// PlatformContentResponse 单平台生成结果
type PlatformContentResponse struct {
	Platform    entity.Platform     `json:"platform"`
	Provider    entity.Provider     `json:"provider,omitempty"`
	Suggestions []entity.Suggestion `json:"suggestions,omitempty"`
	// ResearchData 该平台生成时使用的研究结果
	ResearchData *entity.ResearchBundle `json:"research_data,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

// GenerateResponse 内容生成响应
type GenerateResponse struct {
	Results      []*PlatformContentResponse `json:"results"`
	ResearchData *entity.ResearchBundle     `json:"research_data,omitempty"`
}

// ToGenerateResponse 转换生成结果，失败的平台只携带错误信息
func ToGenerateResponse(results []entity.PlatformResult, research *entity.ResearchBundle) *GenerateResponse {
	out := &GenerateResponse{
		Results:      make([]*PlatformContentResponse, 0, len(results)),
		ResearchData: research,
	}
	for _, r := range results {
		item := &PlatformContentResponse{Platform: r.Platform}
		if r.Err != nil {
			item.Error = r.Err.Error()
		} else if r.Content != nil {
			item.Provider = r.Content.Provider
			item.Suggestions = r.Content.Suggestions
			item.ResearchData = r.Content.ResearchData
		}
		out.Results = append(out.Results, item)
	}
	return out
}

// VariationsRequest 改写请求
type VariationsRequest struct {
	Content    string `json:"content" binding:"required"`
	Platform   string `json:"platform" binding:"required"`
	Count      int    `json:"count,omitempty" binding:"omitempty,min=1,max=5"`
	AIProvider string `json:"ai_provider,omitempty"`
}

// VariationsResponse 改写响应
type VariationsResponse struct {
	OriginalContent string          `json:"original_content"`
	Variations      []string        `json:"variations"`
	Provider        entity.Provider `json:"provider"`
}

// ProvidersResponse 提供商列表
type ProvidersResponse struct {
	DefaultProvider entity.Provider       `json:"default_provider"`
	Providers       []entity.ProviderInfo `json:"providers"`
}
