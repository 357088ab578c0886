package limiter

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/middleware"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
)

// 限流相关响应头
const (
	HeaderRemaining  = "X-RateLimit-Remaining"
	HeaderRetryAfter = "Retry-After"
)

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	Limiter      Limiter
	KeyGenerator func(*gin.Context) string
	Message      string
	Logger       *zap.Logger
}

// IPKeyGenerator 按客户端 IP 与路由区分桶
func IPKeyGenerator(c *gin.Context) string {
	return "ip:" + c.ClientIP() + ":" + c.FullPath()
}

// RateLimitMiddleware 创建限流中间件
// 限流器自身出错时放行并记录日志，不因 Redis 故障拒绝服务
func RateLimitMiddleware(config MiddlewareConfig) gin.HandlerFunc {
	if config.KeyGenerator == nil {
		config.KeyGenerator = IPKeyGenerator
	}
	if config.Message == "" {
		config.Message = "too many requests, please try again later"
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		reqID := middleware.RequestIDFromContext(c.Request.Context())

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		result, err := config.Limiter.Allow(ctx, config.KeyGenerator(c))
		cancel()
		if err != nil {
			config.Logger.Warn("rate limiter unavailable, allowing request",
				zap.String("request_id", reqID),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if result.Remaining >= 0 {
			c.Header(HeaderRemaining, strconv.FormatInt(result.Remaining, 10))
		}

		if !result.Allowed {
			if result.RetryAfter > 0 {
				secs := int64(math.Ceil(result.RetryAfter.Seconds()))
				c.Header(HeaderRetryAfter, strconv.FormatInt(secs, 10))
			}
			config.Logger.Info("rate limit reached",
				zap.String("request_id", reqID),
				zap.String("client_ip", c.ClientIP()),
				zap.String("route", c.FullPath()),
			)
			resp.Error(c.Writer, http.StatusTooManyRequests, resp.CodeTooManyRequests, config.Message, reqID, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AuthRateLimitMiddleware 登录/注册限流，按 IP 计数
func AuthRateLimitMiddleware(l Limiter, logger *zap.Logger) gin.HandlerFunc {
	return RateLimitMiddleware(MiddlewareConfig{
		Limiter: l,
		KeyGenerator: func(c *gin.Context) string {
			return "auth:" + IPKeyGenerator(c)
		},
		Message: "too many authentication attempts, please try again later",
		Logger:  logger,
	})
}
