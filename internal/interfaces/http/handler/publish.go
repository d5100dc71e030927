package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"social-ai-api/internal/application/publishing"
	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/interfaces/http/dto"
	"social-ai-api/pkg/errors"
)

// Publisher 发布能力
type Publisher interface {
	Publish(ctx context.Context, in publishing.Input) (*entity.PublishResult, error)
	Enqueue(ctx context.Context, in publishing.Input, requestID string) (*publishing.Queued, error)
	Platforms() []publishing.PlatformStatus
}

// PublishHandler 发布处理器
type PublishHandler struct {
	publisher Publisher
}

// NewPublishHandler 创建发布处理器
func NewPublishHandler(p Publisher) *PublishHandler {
	return &PublishHandler{publisher: p}
}

// Publish 发布内容，async=true 时投递队列并返回 202
// @Summary 发布内容
// @Tags Publish
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response[entity.PublishResult]
// @Success 202 {object} dto.Response[publishing.Queued]
// @Failure 422 {object} dto.ErrorResponse "平台拒绝内容"
// @Failure 503 {object} dto.ErrorResponse "平台不可用"
// @Router /v1/publish [post]
func (h *PublishHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	platform, err := entity.ParsePlatform(req.Platform)
	if err != nil {
		respondError(c, errors.ErrUnsupportedPlatform.WithDetail(req.Platform))
		return
	}
	in := publishing.Input{Platform: platform, Content: req.Content, Hashtags: req.Hashtags}

	if req.Async || c.Query("async") == "true" {
		queued, err := h.publisher.Enqueue(c.Request.Context(), in, c.GetString("request_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		dto.Accepted(c, queued)
		return
	}

	res, err := h.publisher.Publish(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, res)
}

// Platforms 各平台发布可用性
// @Summary 发布平台
// @Tags Publish
// @Produce json
// @Success 200 {object} dto.Response[[]publishing.PlatformStatus]
// @Router /v1/publish/platforms [get]
func (h *PublishHandler) Platforms(c *gin.Context) {
	dto.Success(c, h.publisher.Platforms())
}
