package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
)

// Timeout 为请求上下文设置截止时间
// 下游的数据库与 Redis 调用随上下文取消；处理器未写出响应时统一返回超时错误
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			reqID := RequestIDFromContext(ctx)
			resp.Error(c.Writer, resp.HTTPStatusFromCode(resp.CodeTimeout), resp.CodeTimeout, "request timeout", reqID, "")
			c.Abort()
		}
	}
}
