// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-ai-api/internal/application/generation"
	"social-ai-api/internal/interfaces/http/dto"
	"social-ai-api/pkg/errors"
	"social-ai-api/pkg/logger"
)

// respondError 将错误映射为统一错误响应
func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var allFailed *generation.AllProvidersFailedError
	switch {
	case stderrors.As(err, &allFailed):
		err = errors.ErrAllProvidersFailed.WithError(err).WithDetail(allFailed.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		dto.ErrorWithDetail(c, http.StatusGatewayTimeout, "request timed out", &dto.ErrorDetail{Details: err.Error()})
		return
	case stderrors.Is(err, context.Canceled):
		// 客户端已断开
		c.Status(499)
		return
	}

	if !errors.IsAppError(err) {
		logger.Error(ctx, "request failed", err, "path", c.FullPath())
		dto.InternalError(c, "internal server error")
		return
	}

	appErr := errors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", err, "path", c.FullPath(), "code", string(appErr.Code))
	}
	dto.Fail(c, appErr)
}

// bindError 请求体校验失败
func bindError(c *gin.Context, err error) {
	dto.Fail(c, errors.ErrInvalidParam.WithDetail(err.Error()))
}
