// Package api 提供HTTP API处理器实现。
// API层负责处理HTTP请求/响应，请求校验由 validation 中间件在进入处理器前完成。
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/middleware"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/validation"
)

func requestID(c *gin.Context) string {
	return middleware.RequestIDFromContext(c.Request.Context())
}

// pageRequest 读取 ?page=&limit=，非法值回落到默认分页
func pageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return domain.PageRequest{Page: page, Limit: limit}.Normalize()
}

// currentUser 取认证中间件注入的用户，缺失时写出 401
func currentUser(c *gin.Context, logger *zap.Logger) (*domain.User, bool) {
	user := middleware.UserFromContext(c.Request.Context())
	if user == nil {
		logger.Error("user not found in context", zap.String("request_id", requestID(c)))
		resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, "authentication required", requestID(c), "")
		return nil, false
	}
	return user, true
}

// bind 取出校验中间件产出的值，未经校验属于路由装配错误
func bind(c *gin.Context, dst any, logger *zap.Logger) bool {
	if err := validation.Bind(c, dst); err != nil {
		logger.Error("failed to bind validated request",
			zap.String("request_id", requestID(c)),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		internalError(c, "internal server error")
		return false
	}
	return true
}

func internalError(c *gin.Context, msg string) {
	resp.Error(c.Writer, http.StatusInternalServerError, resp.CodeInternalError, msg, requestID(c), "")
}
