package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"social-ai-api/pkg/logger"
	"social-ai-api/pkg/tracer"
)

// Trace OpenTelemetry 追踪中间件
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceContext 将 trace_id/span_id 注入 gin 与日志上下文，并把 request_id 记到 span 上
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		traceID := tracer.TraceID(ctx)
		if traceID == "" {
			c.Next()
			return
		}
		spanID := tracer.SpanID(ctx)

		c.Set("trace_id", traceID)
		c.Set("span_id", spanID)
		if reqID := c.GetString("request_id"); reqID != "" {
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("request.id", reqID))
		}

		ctx = logger.WithContext(ctx, logger.TraceIDKey, traceID)
		ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Trace-ID", traceID)

		c.Next()
	}
}
