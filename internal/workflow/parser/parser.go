// Package parser 将模型原始输出规范化为固定结构的建议列表
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"social-ai-api/internal/domain/entity"
)

const (
	// FallbackNote 结构化解析失败时的变体说明
	FallbackNote = "Single response (structured parsing failed)"

	maxHashtags = 5
)

// hashtagPattern 与 #\w+ 等价，\w 按 Unicode 字母数字处理
var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// Result 解析结果
type Result struct {
	Suggestions []entity.Suggestion
	// Structured 是否命中 JSON 结构
	Structured bool
}

// Parse 解析模型输出，始终返回 1~3 条建议，不返回错误
func Parse(raw string, platform entity.Platform) []entity.Suggestion {
	return ParseResult(raw, platform).Suggestions
}

// ParseResult 解析模型输出并标记是否命中结构化格式
func ParseResult(raw string, platform entity.Platform) Result {
	if env, ok := decodeEnvelope(raw); ok {
		items := env.Suggestions
		if len(items) > entity.MaxSuggestions {
			items = items[:entity.MaxSuggestions]
		}

		suggestions := make([]entity.Suggestion, 0, len(items))
		for _, item := range items {
			content := stringField(item, "content")
			suggestions = append(suggestions, entity.NewSuggestion(
				content,
				hashtagsFor(content, platform),
				strings.TrimSpace(stringField(item, "variation_note")),
			))
		}
		return Result{Suggestions: suggestions, Structured: true}
	}

	content := strings.TrimSpace(raw)
	return Result{
		Suggestions: []entity.Suggestion{
			entity.NewSuggestion(content, hashtagsFor(content, platform), FallbackNote),
		},
	}
}

// ExtractHashtags 提取最多 5 个话题标签，去掉前导 #
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, maxHashtags)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

func hashtagsFor(content string, platform entity.Platform) []string {
	if !platform.UsesHashtags() {
		return nil
	}
	return ExtractHashtags(content)
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ParseVariations 按空行切分改写结果，保留最多 count 条
func ParseVariations(raw string, count int) []string {
	if count <= 0 {
		return nil
	}
	var variations []string
	for _, block := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n") {
		if v := strings.TrimSpace(block); v != "" {
			variations = append(variations, v)
		}
		if len(variations) == count {
			break
		}
	}
	return variations
}
