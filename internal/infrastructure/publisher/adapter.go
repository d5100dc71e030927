// Package publisher 将生成的内容发布到各社交平台
package publisher

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"social-ai-api/internal/domain/entity"
)

// Adapter 单个平台的发布能力
type Adapter interface {
	Platform() entity.Platform
	// IsAvailable 凭据是否已配置
	IsAvailable() bool
	Publish(ctx context.Context, text string) (*entity.PublishResult, error)
}

// ErrorKind 发布失败类型
type ErrorKind string

const (
	// KindUnavailable 平台不可用：未配置、网络错误、鉴权失败或服务端错误
	KindUnavailable ErrorKind = "unavailable"
	// KindRejected 平台拒绝了内容
	KindRejected ErrorKind = "rejected"
)

// ErrNotConfigured 平台凭据缺失
var ErrNotConfigured = errors.New("publisher: credentials not configured")

// PublishError 发布失败
type PublishError struct {
	Platform   entity.Platform
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *PublishError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s publish %s (status %d): %v", e.Platform, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s publish %s: %v", e.Platform, e.Kind, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func unavailable(platform entity.Platform, status int, err error) *PublishError {
	return &PublishError{Platform: platform, Kind: KindUnavailable, StatusCode: status, Err: err}
}

func rejected(platform entity.Platform, status int, err error) *PublishError {
	return &PublishError{Platform: platform, Kind: KindRejected, StatusCode: status, Err: err}
}

// classify 按状态码区分平台不可用与内容被拒
func classify(platform entity.Platform, status int, body string) *PublishError {
	err := fmt.Errorf("%s api error: %s", platform, body)
	switch {
	case status == 401 || status == 403 || status == 429 || status >= 500:
		return unavailable(platform, status, err)
	default:
		return rejected(platform, status, err)
	}
}

// checkLength 超出平台字数上限的正文直接拒绝，不发往平台
func checkLength(platform entity.Platform, text string) *PublishError {
	limit := platform.CharLimit()
	if n := utf8.RuneCountInString(text); limit > 0 && n > limit {
		return rejected(platform, 0, fmt.Errorf("content is %d characters, limit is %d", n, limit))
	}
	return nil
}
