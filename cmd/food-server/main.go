package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/api"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/cache"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/config"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/cookie"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/database"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/limiter"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/logger"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/repo"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/router"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/validation"
)

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, lg, nil
}

// initDatabase 初始化数据库连接并执行迁移
// 迁移在 HTTP 服务器启动前完成，处理请求时表结构已就绪
func initDatabase(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*database.DB, error) {
	db, err := database.New(ctx, cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	lg.Info("using migrations directory", zap.String("path", cfg.Migrations.Dir))
	if err := db.RunMigrations(cfg.Migrations.Dir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// initRedis 连接 Redis，不可用时返回 nil，调用方各自降级
func initRedis(ctx context.Context, cfg *config.Config, lg *zap.Logger) *redis.Client {
	needRedis := (cfg.Cache.Enabled && cfg.Cache.Type == "redis") || cfg.RateLimit.Enabled
	if !needRedis {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	client, err := cache.NewRedisClient(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lg.Warn("redis unavailable, falling back to in-process stores", zap.String("addr", addr), zap.Error(err))
		return nil
	}
	lg.Info("redis connected", zap.String("addr", addr))
	return client
}

// initCache 初始化用户读缓存
func initCache(cfg *config.Config, client *redis.Client, lg *zap.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		lg.Info("cache disabled")
		return cache.NewNullCache()
	}

	if cfg.Cache.Type == "redis" && client != nil {
		lg.Info("cache enabled", zap.String("type", "redis"), zap.Duration("ttl", cfg.Cache.TTL))
		return cache.NewRedisCache(client)
	}

	lg.Info("cache enabled", zap.String("type", "memory"), zap.Duration("ttl", cfg.Cache.TTL))
	return cache.NewMemoryCache()
}

// initSessionStore 刷新令牌登记表，与读缓存开关无关，必须可用
// 内存实现只在单实例部署时正确
func initSessionStore(client *redis.Client, lg *zap.Logger) cache.Cache {
	if client != nil {
		return cache.NewRedisCache(client)
	}
	lg.Warn("refresh tokens are tracked in process memory, sessions will not survive a restart")
	return cache.NewMemoryCache()
}

// initLimiter 初始化认证接口限流器
func initLimiter(cfg *config.Config, client *redis.Client, lg *zap.Logger) limiter.Limiter {
	if !cfg.RateLimit.Enabled {
		lg.Info("auth rate limiting disabled")
		return limiter.NoopLimiter{}
	}
	if client == nil {
		lg.Warn("auth rate limiting disabled, redis unavailable")
		return limiter.NoopLimiter{}
	}

	l, err := limiter.NewTokenBucketLimiter(client, limiter.Config{
		Rate:      cfg.RateLimit.Rate,
		Burst:     cfg.RateLimit.Burst,
		Window:    cfg.RateLimit.Window,
		KeyPrefix: "limiter:auth",
	})
	if err != nil {
		lg.Warn("invalid rate limit config, auth rate limiting disabled", zap.Error(err))
		return limiter.NoopLimiter{}
	}
	lg.Info("auth rate limiting enabled",
		zap.Int64("rate", cfg.RateLimit.Rate),
		zap.Int64("burst", cfg.RateLimit.Burst),
		zap.Duration("window", cfg.RateLimit.Window),
	)
	return l
}

// initDependencies 初始化依赖注入链：仓储 -> 服务 -> API处理器
func initDependencies(cfg *config.Config, db *database.DB, client *redis.Client, lg *zap.Logger) *router.Dependencies {
	userRepo := repo.NewUserRepository(db)
	if cfg.Cache.Enabled {
		userRepo = repo.NewCachedUserRepository(userRepo, initCache(cfg, client, lg), cfg.Cache.TTL, lg)
	}
	cartRepo := repo.NewCartRepository(db)
	paymentRepo := repo.NewPaymentRepository(db)

	jwtService := service.NewJWTService(cfg, lg)
	userService := service.NewUserService(userRepo, lg)
	sessionService := service.NewSessionService(jwtService, userService, initSessionStore(client, lg), lg)
	cartService := service.NewCartService(cartRepo, lg)
	paymentService := service.NewPaymentService(paymentRepo, lg)

	checks := map[string]api.Pinger{"database": db}
	if client != nil {
		checks["redis"] = api.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	cookies := cookie.NewPolicy(cfg.Mode())
	lg.Info("refresh token cookie policy",
		zap.String("mode", cfg.Mode().String()),
		zap.Bool("secure", cookies.SetDescriptor().Secure),
	)

	return &router.Dependencies{
		AuthHandler:    api.NewAuthHandler(userService, sessionService, cookies, lg),
		CartHandler:    api.NewCartHandler(cartService, lg),
		PaymentHandler: api.NewPaymentHandler(paymentService, lg),
		UserHandler:    api.NewUserHandler(userService, lg),
		HealthHandler:  api.NewHealthHandler(cfg.App.Version, checks),
		JWTService:     jwtService,
		Validator:      validation.New(),
		AuthLimiter:    initLimiter(cfg, client, lg),
	}
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Info("server starting", zap.String("addr", addr), zap.String("mode", cfg.Mode().String()))
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		lg.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("server shutdown error", zap.Error(err))
	}
	lg.Info("server exited")
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()

	// 2) 初始化数据库连接并执行迁移
	db, err := initDatabase(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			lg.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// 3) 连接 Redis（缓存、会话登记、限流共用）
	client := initRedis(ctx, cfg, lg)
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	// 4) 初始化应用依赖并设置路由
	deps := initDependencies(cfg, db, client, lg)
	handler := router.New().Setup(cfg, deps, lg)

	// 5) 启动 HTTP 服务器
	startServer(cfg, handler, lg)
}
