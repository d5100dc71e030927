package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"social-ai-api/internal/interfaces/http/dto"
	"social-ai-api/pkg/errors"
	"social-ai-api/pkg/logger"
)

// Recovery Panic 恢复中间件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(c, http.StatusInternalServerError,
					"internal server error", &dto.ErrorDetail{ErrorCode: string(errors.CodeInternalError)}))
			}
		}()

		c.Next()
	}
}
