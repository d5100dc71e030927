package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"social-ai-api/internal/config"
	"social-ai-api/internal/domain/entity"
)

const maxCachedAdapters = 256

// Factory 按请求级凭据构造适配器，适配器按 (提供商, 凭据) 缓存复用。
// Gemini 适配器内部仍按次构造客户端。
type Factory struct {
	config   config.LLMConfig
	adapters map[string]Adapter
	mu       sync.RWMutex
}

// NewFactory 创建适配器工厂
func NewFactory(cfg config.LLMConfig) *Factory {
	return &Factory{
		config:   cfg,
		adapters: make(map[string]Adapter),
	}
}

// New 返回绑定到给定凭据的适配器
func (f *Factory) New(provider entity.Provider, credential string) (Adapter, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%s: %w", provider, ErrNoCredentials)
	}

	key := cacheKey(provider, credential)

	f.mu.RLock()
	a, ok := f.adapters[key]
	f.mu.RUnlock()
	if ok {
		return a, nil
	}

	// 惰性构造
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if a, ok = f.adapters[key]; ok {
		return a, nil
	}

	providerCfg, _ := f.config.Provider(string(provider))
	providerCfg.APIKey = credential
	providerCfg.APIKeys = nil

	created, err := newAdapter(provider, providerCfg, []string{credential}, MemoryRotators)
	if err != nil {
		return nil, err
	}
	created = Instrument(created)

	if len(f.adapters) >= maxCachedAdapters {
		f.adapters = make(map[string]Adapter)
	}
	f.adapters[key] = created
	return created, nil
}

// cacheKey 缓存键不包含明文凭据
func cacheKey(provider entity.Provider, credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return string(provider) + ":" + hex.EncodeToString(sum[:8])
}
