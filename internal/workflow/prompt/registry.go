// Package prompt 构造各平台的系统提示词与用户消息
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"social-ai-api/internal/domain/entity"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// PromptID 模板标识
type PromptID string

const (
	// 平台系统提示词为纯文本，正文中的 JSON 示例含花括号，不做占位符渲染
	PromptTwitter  PromptID = "twitter.system"
	PromptLinkedIn PromptID = "linkedin.system"
	PromptGeneric  PromptID = "generic.system"

	// PromptVariations system/user 模板对，按 FString 渲染
	PromptVariations PromptID = "variations"
)

var defaultRegistry = NewRegistry()

// Registry 模板注册表，首次读取后缓存
type Registry struct {
	mu        sync.RWMutex
	texts     map[PromptID]string
	templates map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		texts:     make(map[PromptID]string),
		templates: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

// Text 返回纯文本模板
func (r *Registry) Text(id PromptID) (string, error) {
	if r == nil {
		return "", fmt.Errorf("prompt registry is nil")
	}
	return cached(&r.mu, r.texts, id, func() (string, error) {
		path, err := resolvePromptFile(id)
		if err != nil {
			return "", err
		}
		return readEmbeddedText(path)
	})
}

// ChatTemplate 返回 system/user 消息模板
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}
	return cached(&r.mu, r.templates, id, func() (einoprompt.ChatTemplate, error) {
		systemPath, userPath, err := resolvePromptFiles(id)
		if err != nil {
			return nil, err
		}
		system, err := readEmbeddedText(systemPath)
		if err != nil {
			return nil, err
		}
		user, err := readEmbeddedText(userPath)
		if err != nil {
			return nil, err
		}
		return einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(system),
			schema.UserMessage(user),
		), nil
	})
}

// Render 渲染消息模板，返回 system 与 user 文本
func (r *Registry) Render(ctx context.Context, id PromptID, vars map[string]any) (string, string, error) {
	tpl, err := r.ChatTemplate(id)
	if err != nil {
		return "", "", err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", "", fmt.Errorf("render prompt %s: %w", id, err)
	}
	if len(msgs) != 2 {
		return "", "", fmt.Errorf("render prompt %s: expected 2 messages, got %d", id, len(msgs))
	}
	return msgs[0].Content, msgs[1].Content, nil
}

// SystemPrompt 返回平台系统提示词，未知平台使用通用文案且不要求 JSON 结构
func (r *Registry) SystemPrompt(platform entity.Platform) string {
	switch platform {
	case entity.PlatformTwitter:
		return r.mustText(PromptTwitter)
	case entity.PlatformLinkedIn:
		return r.mustText(PromptLinkedIn)
	default:
		return r.mustText(PromptGeneric)
	}
}

// mustText 模板随二进制嵌入，读取失败属于构建错误
func (r *Registry) mustText(id PromptID) string {
	text, err := r.Text(id)
	if err != nil {
		panic(err)
	}
	return text
}

func cached[T any](mu *sync.RWMutex, cache map[PromptID]T, id PromptID, load func() (T, error)) (T, error) {
	mu.RLock()
	if v, ok := cache[id]; ok {
		mu.RUnlock()
		return v, nil
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if v, ok := cache[id]; ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	cache[id] = v
	return v, nil
}

func resolvePromptFile(id PromptID) (string, error) {
	switch id {
	case PromptTwitter, PromptLinkedIn, PromptGeneric:
		return "templates/" + string(id) + ".txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptVariations:
		return "templates/variations.system.txt", "templates/variations.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
