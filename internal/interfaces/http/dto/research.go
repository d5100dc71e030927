package dto

// ResearchRequest 研究请求
type ResearchRequest struct {
	Topic             string `json:"topic" binding:"required"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// TrendingResponse 热点话题
type TrendingResponse struct {
	Category string   `json:"category,omitempty"`
	Topics   []string `json:"topics"`
}
