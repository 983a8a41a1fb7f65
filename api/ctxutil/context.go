// Package ctxutil 把 gin 请求上下文转换为用例使用的 context
package ctxutil

import (
	"context"

	"servicedesk/api/response"
	"servicedesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// FromGin 返回携带请求 ID 的 context，操作人已由 ActorMiddleware 放入
func FromGin(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if logger.RequestIDFromContext(ctx) == "" {
		ctx = logger.ContextWithRequestID(ctx, response.GetRequestID(c))
	}
	return ctx
}
