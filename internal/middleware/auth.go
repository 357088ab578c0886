package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
)

// bearerToken 解析 Authorization 头，前缀大小写不敏感
func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// AuthMiddleware JWT认证中间件
// 验证 Bearer 访问令牌，并将用户身份注入到请求上下文中
func AuthMiddleware(jwtService service.JWTService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := RequestIDFromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, "authorization header required", reqID, "")
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			logger.Debug("invalid authorization header format", zap.String("request_id", reqID))
			resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, "invalid authorization header format", reqID, "")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			logger.Debug("token validation failed",
				zap.String("request_id", reqID),
				zap.Error(err),
			)

			msg := "invalid token"
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				msg = "token expired"
			case errors.Is(err, service.ErrTokenNotReady):
				msg = "token not ready"
			}
			resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, msg, reqID, "")
			c.Abort()
			return
		}

		// 令牌里只有身份与角色，完整资料由处理器按需查询
		user := &domain.User{
			ID:   claims.UserID,
			Role: claims.Role,
		}
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// RequireRole 角色授权中间件，须挂在 AuthMiddleware 之后
func RequireRole(requiredRole domain.UserRole, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := RequestIDFromContext(c.Request.Context())
		user := UserFromContext(c.Request.Context())

		if user == nil {
			logger.Error("user not found in context", zap.String("request_id", reqID))
			resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, "authentication required", reqID, "")
			c.Abort()
			return
		}

		if user.Role != requiredRole {
			logger.Warn("insufficient permissions",
				zap.String("request_id", reqID),
				zap.Int64("user_id", user.ID),
				zap.String("user_role", string(user.Role)),
				zap.String("required_role", string(requiredRole)),
			)
			resp.Error(c.Writer, http.StatusForbidden, resp.CodeForbidden, "insufficient permissions", reqID, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin 管理员权限中间件
func RequireAdmin(logger *zap.Logger) gin.HandlerFunc {
	return RequireRole(domain.UserRoleAdmin, logger)
}
