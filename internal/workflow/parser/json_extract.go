package parser

import (
	"encoding/json"
	"slices"
	"strings"
)

// maxEnvelopeCandidates 含 suggestions 键的候选对象最多尝试解码的个数
const maxEnvelopeCandidates = 16

// stripCodeFence 去掉 ```json ... ``` 包裹
func stripCodeFence(s string) string {
	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	if nl := strings.IndexByte(raw, '\n'); nl >= 0 && !strings.Contains(raw[:nl], "{") {
		// 去掉语言标记行，例如 json
		raw = raw[nl+1:]
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

// outerObject 截取第一个 "{" 到最后一个 "}" 之间的文本
func outerObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// decodeEnvelope 在文本中查找包含 suggestions 数组的 JSON 对象。
// 先尝试最外层截取，失败后按起点顺序逐个尝试括号配平的对象。
func decodeEnvelope(s string) (*envelope, bool) {
	raw := stripCodeFence(s)

	if obj, ok := outerObject(raw); ok {
		if env, ok := unmarshalEnvelope([]byte(obj)); ok {
			return env, true
		}
	}

	attempts := 0
	for _, span := range balancedObjects(raw) {
		obj := raw[span[0]:span[1]]
		if !strings.Contains(obj, `"suggestions"`) {
			continue
		}
		if env, ok := unmarshalEnvelope([]byte(obj)); ok {
			return env, true
		}
		if attempts++; attempts >= maxEnvelopeCandidates {
			break
		}
	}
	return nil, false
}

// balancedObjects 单遍扫描，返回所有配平的 {...} 区间，按起点排序。
// 未闭合的 "{" 不产生区间；对象内部字符串里的括号不计数。
func balancedObjects(s string) [][2]int {
	var (
		spans    [][2]int
		open     []int
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = len(open) > 0
		case '{':
			open = append(open, i)
		case '}':
			if n := len(open); n > 0 {
				spans = append(spans, [2]int{open[n-1], i + 1})
				open = open[:n-1]
			}
		}
	}
	slices.SortFunc(spans, func(a, b [2]int) int { return a[0] - b[0] })
	return spans
}

type envelope struct {
	Suggestions []map[string]any `json:"suggestions"`
}

func unmarshalEnvelope(b []byte) (*envelope, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, false
	}
	rawList, ok := probe["suggestions"]
	if !ok {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawList, &items); err != nil {
		return nil, false
	}

	env := &envelope{Suggestions: make([]map[string]any, 0, len(items))}
	for _, item := range items {
		var m map[string]any
		if err := json.Unmarshal(item, &m); err != nil {
			// 非对象条目按纯文本内容处理
			var text string
			if json.Unmarshal(item, &text) == nil {
				m = map[string]any{"content": text}
			} else {
				continue
			}
		}
		env.Suggestions = append(env.Suggestions, m)
	}
	if len(env.Suggestions) == 0 {
		return nil, false
	}
	return env, true
}
