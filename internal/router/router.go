// Package router 提供 HTTP 路由设置和中间件配置功能
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/api"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/config"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/limiter"
	mw "github.com/mrinalkantikolay/zomato-clone-sub001/internal/middleware"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/validation"
)

// Dependencies 包含路由设置所需的所有依赖
type Dependencies struct {
	AuthHandler    *api.AuthHandler
	CartHandler    *api.CartHandler
	PaymentHandler *api.PaymentHandler
	UserHandler    *api.UserHandler
	HealthHandler  *api.HealthHandler
	JWTService     service.JWTService
	Validator      *validation.Validator
	AuthLimiter    limiter.Limiter
}

// Router 路由器接口
type Router interface {
	Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler
}

// GinRouter Gin路由器实现
type GinRouter struct {
	engine *gin.Engine
	deps   *Dependencies
	logger *zap.Logger
}

// New 创建新的路由器实例
func New() Router {
	return &GinRouter{}
}

// Setup 设置路由和中间件
func (r *GinRouter) Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler {
	if cfg.Mode() == config.ModeProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if deps.AuthLimiter == nil {
		deps.AuthLimiter = limiter.NoopLimiter{}
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}

	r.engine = gin.New()
	r.deps = deps
	r.logger = lg

	// 限流按 ClientIP 计数，只采信受信代理转发的 X-Forwarded-For
	if err := r.engine.SetTrustedProxies(cfg.App.TrustedProxies); err != nil {
		lg.Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.App.TrustedProxies), zap.Error(err))
		_ = r.engine.SetTrustedProxies(nil)
	}

	r.setupMiddleware(cfg)
	r.setupRoutes()

	return r.engine
}

// setupMiddleware 设置全局中间件
// 请求进入顺序：recovery → request ID → access log → CORS → timeout
func (r *GinRouter) setupMiddleware(cfg *config.Config) {
	r.engine.Use(mw.Recovery(r.logger))
	r.engine.Use(mw.RequestID())
	r.engine.Use(mw.AccessLog(r.logger))
	r.engine.Use(cors.New(corsConfig(cfg)))
	if cfg.App.RequestTimeout > 0 {
		r.engine.Use(mw.Timeout(cfg.App.RequestTimeout))
	}
}

// corsConfig 前端通过 Cookie 携带刷新令牌，必须允许凭证且不能使用通配来源
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = cfg.CORS.AllowedOrigins
	c.AllowMethods = cfg.CORS.AllowedMethods
	c.AllowHeaders = cfg.CORS.AllowedHeaders
	c.ExposeHeaders = []string{mw.HeaderRequestID, limiter.HeaderRetryAfter}
	c.AllowCredentials = true
	return c
}

// setupRoutes 设置所有路由
func (r *GinRouter) setupRoutes() {
	r.engine.GET("/healthz", r.deps.HealthHandler.Healthz)

	v := r.deps.Validator
	authn := mw.AuthMiddleware(r.deps.JWTService, r.logger)
	authLimit := limiter.AuthRateLimitMiddleware(r.deps.AuthLimiter, r.logger)

	v1 := r.engine.Group("/api/v1")
	{
		// 认证路由，注册和登录按客户端 IP 限流
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authLimit, v.Middleware(validation.Signup, r.logger), r.deps.AuthHandler.Signup)
			auth.POST("/login", authLimit, v.Middleware(validation.Login, r.logger), r.deps.AuthHandler.Login)
			auth.POST("/refresh", r.deps.AuthHandler.Refresh)
			auth.POST("/logout", r.deps.AuthHandler.Logout)
			auth.GET("/me", authn, r.deps.AuthHandler.Me)
		}

		// 购物车（需要认证）
		cart := v1.Group("/cart")
		cart.Use(authn)
		{
			cart.GET("", r.deps.CartHandler.Get)
			cart.POST("", v.Middleware(validation.AddToCart, r.logger), r.deps.CartHandler.Add)
			cart.DELETE("/:menuId", v.Middleware(validation.RemoveCartItem, r.logger), r.deps.CartHandler.Remove)
		}

		// 支付记录（需要认证）
		payments := v1.Group("/payments")
		payments.Use(authn)
		{
			payments.GET("", r.deps.PaymentHandler.ListMine)
		}

		// 管理员路由（需要认证+管理员权限）
		admin := v1.Group("/admin")
		admin.Use(authn, mw.RequireAdmin(r.logger))
		{
			admin.GET("/payments", r.deps.PaymentHandler.ListAll)
			admin.GET("/users", r.deps.UserHandler.List)
		}
	}
}
