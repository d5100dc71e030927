package dto

// PublishRequest 发布请求
type PublishRequest struct {
	Platform string   `json:"platform" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Hashtags []string `json:"hashtags,omitempty" binding:"omitempty,max=5"`
	// Async 为 true 时投递到发布队列
	Async bool `json:"async,omitempty"`
}
