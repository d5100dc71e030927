package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"social-ai-api/internal/application/generation"
	"social-ai-api/internal/domain/entity"
	"social-ai-api/internal/interfaces/http/dto"
	"social-ai-api/internal/interfaces/http/middleware"
	"social-ai-api/pkg/errors"
)

// ContentService 内容生成能力
type ContentService interface {
	Generate(ctx context.Context, in generation.GenerateInput) ([]entity.PlatformResult, *entity.ResearchBundle, error)
	Variations(ctx context.Context, in generation.VariationInput) ([]string, entity.Provider, error)
	Providers() []entity.ProviderInfo
}

// ContentHandler 内容生成处理器
type ContentHandler struct {
	svc             ContentService
	defaultProvider entity.Provider
}

// NewContentHandler 创建内容生成处理器
func NewContentHandler(svc ContentService, defaultProvider entity.Provider) *ContentHandler {
	if defaultProvider == "" {
		defaultProvider = entity.ProviderClaude
	}
	return &ContentHandler{svc: svc, defaultProvider: defaultProvider}
}

// Generate 为多个平台生成内容
// @Summary 生成内容
// @Tags Content
// @Accept json
// @Produce json
// @Param X-Provider-Key header string false "请求级 LLM 凭据，仅作用于首选提供商"
// @Success 200 {object} dto.Response[dto.GenerateResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "所有平台均生成失败"
// @Router /v1/content/generate [post]
func (h *ContentHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	platforms := make([]entity.Platform, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		platform, err := entity.ParsePlatform(p)
		if err != nil {
			respondError(c, errors.ErrUnsupportedPlatform.WithDetail(p))
			return
		}
		platforms = append(platforms, platform)
	}

	provider, err := h.provider(req.AIProvider)
	if err != nil {
		respondError(c, err)
		return
	}

	results, research, err := h.svc.Generate(c.Request.Context(), generation.GenerateInput{
		Topic:             req.Topic,
		Platforms:         platforms,
		Provider:          provider,
		IncludeResearch:   req.ResearchEnabled(),
		AdditionalContext: req.AdditionalContext,
		Credential:        middleware.CredentialFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// 全部平台失败时返回首个错误，部分失败时逐项返回
	if failed := firstFailure(results); failed != nil && allFailed(results) {
		respondError(c, failed)
		return
	}

	dto.Success(c, dto.ToGenerateResponse(results, research))
}

// Variations 生成改写版本
// @Summary 生成改写
// @Tags Content
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response[dto.VariationsResponse]
// @Router /v1/content/variations [post]
func (h *ContentHandler) Variations(c *gin.Context) {
	var req dto.VariationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	platform, err := entity.ParsePlatform(req.Platform)
	if err != nil {
		respondError(c, errors.ErrUnsupportedPlatform.WithDetail(req.Platform))
		return
	}
	provider, err := h.provider(req.AIProvider)
	if err != nil {
		respondError(c, err)
		return
	}

	variations, used, err := h.svc.Variations(c.Request.Context(), generation.VariationInput{
		Content:    req.Content,
		Platform:   platform,
		Provider:   provider,
		Count:      req.Count,
		Credential: middleware.CredentialFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, &dto.VariationsResponse{
		OriginalContent: req.Content,
		Variations:      variations,
		Provider:        used,
	})
}

// Providers 列出提供商及可用状态
// @Summary 提供商列表
// @Tags Content
// @Produce json
// @Success 200 {object} dto.Response[dto.ProvidersResponse]
// @Router /v1/providers [get]
func (h *ContentHandler) Providers(c *gin.Context) {
	dto.Success(c, &dto.ProvidersResponse{
		DefaultProvider: h.defaultProvider,
		Providers:       h.svc.Providers(),
	})
}

func (h *ContentHandler) provider(name string) (entity.Provider, error) {
	if name == "" {
		return h.defaultProvider, nil
	}
	p, err := entity.ParseProvider(name)
	if err != nil {
		return "", errors.ErrInvalidParam.WithDetail(err.Error())
	}
	return p, nil
}

func firstFailure(results []entity.PlatformResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func allFailed(results []entity.PlatformResult) bool {
	for _, r := range results {
		if r.Err == nil {
			return false
		}
	}
	return len(results) > 0
}
