package research

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"social-ai-api/internal/domain/entity"
)

const (
	maxFindings = 5
	maxSources  = 3
	maxTopics   = 10
)

var (
	findingKeywords = []string{
		"according to", "study shows", "research indicates",
		"data reveals", "statistics show", "recent survey",
		"%", "percent", "million", "billion", "increase", "decrease",
	}
	sourceKeywords = []string{"source:", "according to", "study by", "research from"}

	// 列表前缀：数字编号或项目符号
	listMarker = regexp.MustCompile(`^(?:\d+[.)]|[-•*])\s*`)
)

// Parse 从研究文本中提取要点与来源。
// 没有命中关键词的行时，退回到长度适中的句子。
func Parse(content, topic string) *entity.ResearchBundle {
	var findings, sources []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, findingKeywords) {
			findings = append(findings, line)
		}
		if containsAny(lower, sourceKeywords) {
			sources = append(sources, line)
		}
	}

	findings = head(findings, maxFindings)
	sources = head(sources, maxSources)

	if len(findings) == 0 {
		findings = keySentences(content, maxFindings)
	}

	return &entity.ResearchBundle{
		Query:       topic,
		Findings:    findings,
		Sources:     sources,
		FullContent: content,
	}
}

// keySentences 按句号切分，保留 20 到 200 字符之间的句子
func keySentences(content string, limit int) []string {
	var out []string
	for _, sentence := range strings.Split(content, ".") {
		sentence = strings.TrimSpace(sentence)
		n := utf8.RuneCountInString(sentence)
		if n <= 20 || n >= 200 {
			continue
		}
		out = append(out, sentence+".")
		if len(out) == limit {
			break
		}
	}
	return out
}

// ExtractTopics 提取编号或项目符号列表中的话题
func ExtractTopics(content string) []string {
	var topics []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		loc := listMarker.FindStringIndex(line)
		if loc == nil {
			continue
		}
		topic := strings.TrimSpace(strings.Trim(line[loc[1]:], "*"))
		if utf8.RuneCountInString(topic) <= 10 {
			continue
		}
		topics = append(topics, topic)
		if len(topics) == maxTopics {
			break
		}
	}
	return topics
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
