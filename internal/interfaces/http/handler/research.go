package handler

import (
	"github.com/gin-gonic/gin"

	"social-ai-api/internal/application/research"
	"social-ai-api/internal/interfaces/http/dto"
)

// ResearchHandler 研究处理器
type ResearchHandler struct {
	provider research.Provider
}

// NewResearchHandler 创建研究处理器，provider 为空表示研究未启用
func NewResearchHandler(provider research.Provider) *ResearchHandler {
	return &ResearchHandler{provider: provider}
}

// Research 研究话题
// @Summary 话题研究
// @Tags Research
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response[entity.ResearchBundle]
// @Failure 503 {object} dto.ErrorResponse "研究未启用"
// @Router /v1/research [post]
func (h *ResearchHandler) Research(c *gin.Context) {
	if h.provider == nil {
		dto.ServiceUnavailable(c, "research is not configured")
		return
	}

	var req dto.ResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	bundle, err := h.provider.Research(c.Request.Context(), req.Topic, req.AdditionalContext)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, bundle)
}

// Trending 热点话题
// @Summary 热点话题
// @Tags Research
// @Produce json
// @Param category query string false "分类"
// @Success 200 {object} dto.Response[dto.TrendingResponse]
// @Router /v1/research/trending [get]
func (h *ResearchHandler) Trending(c *gin.Context) {
	if h.provider == nil {
		dto.ServiceUnavailable(c, "research is not configured")
		return
	}

	category := c.Query("category")
	topics, err := h.provider.TrendingTopics(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}
	if topics == nil {
		topics = []string{}
	}
	dto.Success(c, &dto.TrendingResponse{Category: category, Topics: topics})
}
