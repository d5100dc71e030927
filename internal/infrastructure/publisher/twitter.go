package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"social-ai-api/internal/config"
	"social-ai-api/internal/domain/entity"
)

const defaultTwitterBaseURL = "https://api.twitter.com/2"

// XAdapter 通过 v2 tweets 接口发帖，使用 OAuth2 用户令牌
type XAdapter struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewXAdapter 创建 X 发布器
func NewXAdapter(cfg config.TwitterConfig, timeout time.Duration) *XAdapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTwitterBaseURL
	}
	return &XAdapter{
		client:  newHTTPClient(cfg.AccessToken, timeout),
		baseURL: baseURL,
		token:   cfg.AccessToken,
	}
}

func (a *XAdapter) Platform() entity.Platform { return entity.PlatformTwitter }

func (a *XAdapter) IsAvailable() bool { return a.token != "" }

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Publish 发帖，超过 280 字符的正文按内容被拒处理
func (a *XAdapter) Publish(ctx context.Context, text string) (*entity.PublishResult, error) {
	if !a.IsAvailable() {
		return nil, unavailable(entity.PlatformTwitter, 0, ErrNotConfigured)
	}

	if err := checkLength(entity.PlatformTwitter, text); err != nil {
		return nil, err
	}
	resp, raw, err := postJSON(ctx, a.client, a.baseURL+"/tweets", map[string]string{"text": text}, nil)
	if err != nil {
		return nil, unavailable(entity.PlatformTwitter, 0, err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, classify(entity.PlatformTwitter, resp.StatusCode, snippet(raw))
	}

	var body tweetResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Data.ID == "" {
		return nil, unavailable(entity.PlatformTwitter, resp.StatusCode, fmt.Errorf("unexpected response: %s", snippet(raw)))
	}

	return &entity.PublishResult{
		Platform:       entity.PlatformTwitter,
		PlatformPostID: body.Data.ID,
		URL:            "https://twitter.com/i/status/" + body.Data.ID,
	}, nil
}

var _ Adapter = (*XAdapter)(nil)
