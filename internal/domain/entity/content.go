package entity

import (
	"time"
	"unicode/utf8"
)

// MaxSuggestions 单次生成返回的建议上限
const MaxSuggestions = 3

// ResearchBundle 研究结果
type ResearchBundle struct {
	Query       string    `json:"query"`
	Findings    []string  `json:"findings"`
	Sources     []string  `json:"sources"`
	FullContent string    `json:"full_content,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// GenerationRequest 单平台生成请求，构造后不再修改
type GenerationRequest struct {
	Topic             string
	Platform          Platform
	Provider          Provider
	Research          *ResearchBundle
	AdditionalContext string
	// Credential 请求级凭据，仅作用于首选提供商
	Credential string
}

// Suggestion 单条候选内容
type Suggestion struct {
	Content        string   `json:"content"`
	CharacterCount int      `json:"character_count"`
	Hashtags       []string `json:"hashtags,omitempty"`
	VariationNote  string   `json:"variation_note,omitempty"`
}

// NewSuggestion 创建建议并同步字符数
func NewSuggestion(content string, hashtags []string, note string) Suggestion {
	return Suggestion{
		Content:        content,
		CharacterCount: utf8.RuneCountInString(content),
		Hashtags:       hashtags,
		VariationNote:  note,
	}
}

// GeneratedContent 单平台生成结果
type GeneratedContent struct {
	Platform     Platform        `json:"platform"`
	Suggestions  []Suggestion    `json:"suggestions"`
	ResearchData *ResearchBundle `json:"research_data,omitempty"`
	// Provider 实际产出内容的提供商
	Provider Provider `json:"provider"`
}

// PlatformResult 多平台请求中单个平台的结果，Content 与 Err 二选一
type PlatformResult struct {
	Platform Platform
	Content  *GeneratedContent
	Err      error
}

// PublishResult 发布结果
type PublishResult struct {
	Platform       Platform `json:"platform"`
	PlatformPostID string   `json:"platform_post_id"`
	URL            string   `json:"url"`
}
