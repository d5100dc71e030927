package publisher

import (
	"strings"
	"unicode/utf8"

	"social-ai-api/internal/domain/entity"
)

const ellipsis = "..."

// Format 按平台规则拼接话题标签并截断。
// 标签只在不超出字数上限时追加，超长正文截断为 limit-3 个字符加省略号。
func Format(platform entity.Platform, content string, hashtags []string) string {
	limit := platform.CharLimit()
	out := content

	if len(hashtags) > 0 {
		tags := make([]string, 0, len(hashtags))
		for _, h := range hashtags {
			h = strings.TrimPrefix(strings.TrimSpace(h), "#")
			if h != "" {
				tags = append(tags, "#"+h)
			}
		}
		if len(tags) > 0 {
			candidate := out + separator(platform) + strings.Join(tags, " ")
			if limit == 0 || utf8.RuneCountInString(candidate) <= limit {
				out = candidate
			}
		}
	}

	return Truncate(out, limit)
}

// Truncate 超出 limit 个字符时截断并追加省略号，limit 为 0 表示不限制
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

func separator(platform entity.Platform) string {
	if platform == entity.PlatformLinkedIn {
		return "\n\n"
	}
	return " "
}
