package prompt

import (
	"context"
	"strings"

	"social-ai-api/internal/domain/entity"
)

const (
	maxResearchFindings = 3
	maxResearchSources  = 3
)

// Build 生成平台系统提示词与用户消息，纯函数
func Build(platform entity.Platform, topic string, research *entity.ResearchBundle, context string) (system string, user string) {
	return defaultRegistry.Build(platform, topic, research, context)
}

// Build 使用指定注册表生成提示词
func (r *Registry) Build(platform entity.Platform, topic string, research *entity.ResearchBundle, context string) (string, string) {
	return r.SystemPrompt(platform), UserMessage(topic, research, context)
}

// UserMessage 组装用户消息：研究上下文、附加上下文、主题，缺省的段落直接省略
func UserMessage(topic string, research *entity.ResearchBundle, context string) string {
	parts := make([]string, 0, 12)

	if hasResearch(research) {
		parts = append(parts, "RESEARCH CONTEXT:")
		for _, finding := range head(research.Findings, maxResearchFindings) {
			parts = append(parts, "- "+finding)
		}
		if sources := head(research.Sources, maxResearchSources); len(sources) > 0 {
			parts = append(parts, "\nSOURCES:")
			for _, source := range sources {
				parts = append(parts, "- "+source)
			}
		}
		parts = append(parts, "")
	}

	if ctx := strings.TrimSpace(context); ctx != "" {
		parts = append(parts, "ADDITIONAL CONTEXT:\n"+ctx+"\n")
	}

	parts = append(parts, "Generate a post about: "+strings.TrimSpace(topic))
	return strings.Join(parts, "\n")
}

// BuildVariations 生成改写已有内容的提示词
func BuildVariations(ctx context.Context, platform entity.Platform, content string, count int) (system string, user string, err error) {
	return defaultRegistry.BuildVariations(ctx, platform, content, count)
}

// BuildVariations 使用指定注册表生成改写提示词
func (r *Registry) BuildVariations(ctx context.Context, platform entity.Platform, content string, count int) (string, string, error) {
	return r.Render(ctx, PromptVariations, map[string]any{
		"count":    count,
		"platform": platformLabel(platform),
		"content":  strings.TrimSpace(content),
	})
}

func platformLabel(p entity.Platform) string {
	switch p {
	case entity.PlatformTwitter:
		return "X/Twitter"
	case entity.PlatformLinkedIn:
		return "LinkedIn"
	default:
		return string(p)
	}
}

func hasResearch(r *entity.ResearchBundle) bool {
	return r != nil && (len(r.Findings) > 0 || len(r.Sources) > 0)
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
