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

const (
	defaultLinkedInBaseURL = "https://api.linkedin.com/v2"
	linkedInVersion        = "202401"
)

// LinkedInAdapter 通过 UGC Posts 接口发布个人动态
type LinkedInAdapter struct {
	client   *http.Client
	baseURL  string
	personID string
	token    string
}

// NewLinkedInAdapter 创建 LinkedIn 发布器
func NewLinkedInAdapter(cfg config.LinkedInConfig, timeout time.Duration) *LinkedInAdapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultLinkedInBaseURL
	}
	return &LinkedInAdapter{
		client:   newHTTPClient(cfg.AccessToken, timeout),
		baseURL:  baseURL,
		personID: cfg.PersonID,
		token:    cfg.AccessToken,
	}
}

func (a *LinkedInAdapter) Platform() entity.Platform { return entity.PlatformLinkedIn }

func (a *LinkedInAdapter) IsAvailable() bool {
	return a.token != "" && a.personID != ""
}

type ugcPost struct {
	Author          string            `json:"author"`
	LifecycleState  string            `json:"lifecycleState"`
	SpecificContent map[string]any    `json:"specificContent"`
	Visibility      map[string]string `json:"visibility"`
}

func newUGCPost(personID, text string) ugcPost {
	return ugcPost{
		Author:         "urn:li:person:" + personID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
}

// Publish 发布一条动态，成功时返回 201 与 x-linkedin-id
func (a *LinkedInAdapter) Publish(ctx context.Context, text string) (*entity.PublishResult, error) {
	if !a.IsAvailable() {
		return nil, unavailable(entity.PlatformLinkedIn, 0, ErrNotConfigured)
	}

	if err := checkLength(entity.PlatformLinkedIn, text); err != nil {
		return nil, err
	}
	resp, raw, err := postJSON(ctx, a.client, a.baseURL+"/ugcPosts", newUGCPost(a.personID, text), map[string]string{
		"LinkedIn-Version":          linkedInVersion,
		"X-Restli-Protocol-Version": "2.0.0",
	})
	if err != nil {
		return nil, unavailable(entity.PlatformLinkedIn, 0, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, classify(entity.PlatformLinkedIn, resp.StatusCode, fmt.Sprintf("%d - %s", resp.StatusCode, snippet(raw)))
	}

	postID := resp.Header.Get("x-linkedin-id")
	if postID == "" {
		postID = resp.Header.Get("x-restli-id")
	}
	if postID == "" {
		var body struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(raw, &body)
		postID = body.ID
	}

	return &entity.PublishResult{
		Platform:       entity.PlatformLinkedIn,
		PlatformPostID: postID,
		URL:            fmt.Sprintf("https://www.linkedin.com/feed/update/%s/", postID),
	}, nil
}

var _ Adapter = (*LinkedInAdapter)(nil)
