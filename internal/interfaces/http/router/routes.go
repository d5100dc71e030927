package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *RouterHandlers) {
	// 内容生成
	content := v1.Group("/content")
	{
		content.POST("/generate", h.Content.Generate)
		content.POST("/variations", h.Content.Variations)
	}
	v1.GET("/providers", h.Content.Providers)

	// 话题研究
	research := v1.Group("/research")
	{
		research.POST("", h.Research.Research)
		research.GET("/trending", h.Research.Trending)
	}

	// 发布
	publish := v1.Group("/publish")
	{
		publish.POST("", h.Publish.Publish)
		publish.GET("/platforms", h.Publish.Platforms)
	}
}
