// Package config 负责从环境变量加载应用配置。
// 配置在进程启动时加载一次，之后只读，可被任意数量的并发请求安全读取。
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DeployMode 表示部署模式
type DeployMode int

const (
	ModeDevelopment DeployMode = iota // 非生产环境（本地开发、测试）
	ModeProduction                    // 生产环境
)

func (m DeployMode) String() string {
	if m == ModeProduction {
		return "production"
	}
	return "development"
}

// ParseDeployMode 将环境名解析为部署模式，只有 prod/production 视为生产环境
func ParseDeployMode(env string) DeployMode {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return ModeProduction
	default:
		return ModeDevelopment
	}
}

// defaultJWTSecret 仅用于本地开发，生产环境禁止使用
const defaultJWTSecret = "dev-secret-change-me"

// RefreshTokenLifetime 刷新令牌有效期，刷新令牌 Cookie 的 Max-Age 取同一值
const RefreshTokenLifetime = 7 * 24 * time.Hour

// Config 应用配置
type Config struct {
	App struct {
		Name            string
		Version         string
		Env             string
		Port            int
		RequestTimeout  time.Duration
		ShutdownTimeout time.Duration
		TrustedProxies  []string // 允许设置 X-Forwarded-For 的反向代理 IP/CIDR，为空时只信任连接地址
	}

	Log struct {
		Level    string
		Encoding string
	}

	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}

	Redis struct {
		Host     string
		Port     int
		Password string
		DB       int
	}

	Cache struct {
		Enabled bool
		Type    string // redis | memory
		TTL     time.Duration
	}

	JWT struct {
		Secret          string
		AccessTokenTTL  time.Duration
		RefreshTokenTTL time.Duration
	}

	CORS struct {
		AllowedOrigins []string
		AllowedMethods []string
		AllowedHeaders []string
	}

	RateLimit struct {
		Enabled bool
		Rate    int64
		Burst   int64
		Window  time.Duration
	}

	Migrations struct {
		Dir string
	}
}

// Mode 返回当前部署模式
func (c *Config) Mode() DeployMode {
	return ParseDeployMode(c.App.Env)
}

// Load 加载配置
// 若当前目录存在 .env 文件则先载入，已存在的环境变量不会被覆盖
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.Name = getEnv("APP_NAME", "food-server")
	cfg.App.Version = getEnv("APP_VERSION", "0.1.0")
	cfg.App.Env = getEnv("APP_ENV", "dev")
	cfg.App.Port = getEnvAsInt("APP_PORT", 8080)
	cfg.App.RequestTimeout = getEnvAsDuration("APP_REQUEST_TIMEOUT", 10*time.Second)
	cfg.App.ShutdownTimeout = getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", 15*time.Second)
	cfg.App.TrustedProxies = getEnvAsSlice("APP_TRUSTED_PROXIES", nil)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Encoding = getEnv("LOG_ENCODING", "json")

	cfg.Database.Host = getEnv("DB_HOST", "127.0.0.1")
	cfg.Database.Port = getEnvAsInt("DB_PORT", 3306)
	cfg.Database.User = getEnv("DB_USER", "root")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.DBName = getEnv("DB_NAME", "food_shop")

	cfg.Redis.Host = getEnv("REDIS_HOST", "127.0.0.1")
	cfg.Redis.Port = getEnvAsInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	cfg.Cache.Enabled = getEnvAsBool("CACHE_ENABLED", true)
	cfg.Cache.Type = getEnv("CACHE_TYPE", "redis")
	cfg.Cache.TTL = getEnvAsDuration("CACHE_TTL", 5*time.Minute)

	cfg.JWT.Secret = getEnv("JWT_SECRET", defaultJWTSecret)
	cfg.JWT.AccessTokenTTL = getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute)
	cfg.JWT.RefreshTokenTTL = getEnvAsDuration("JWT_REFRESH_TTL", RefreshTokenLifetime)

	cfg.CORS.AllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	cfg.CORS.AllowedMethods = getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	cfg.CORS.AllowedHeaders = getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})

	cfg.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", true)
	cfg.RateLimit.Rate = int64(getEnvAsInt("RATE_LIMIT_RATE", 10))
	cfg.RateLimit.Burst = int64(getEnvAsInt("RATE_LIMIT_BURST", 10))
	cfg.RateLimit.Window = getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute)

	cfg.Migrations.Dir = getEnv("MIGRATIONS_DIR", "migrations")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置合法性
// 生产环境下额外要求：必须显式配置 JWT 密钥，刷新令牌有效期固定为 7 天
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT: %d", c.App.Port)
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return errors.New("JWT token TTL must be positive")
	}
	for _, p := range c.App.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("invalid APP_TRUSTED_PROXIES entry: %s", p)
			}
		}
	}
	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return fmt.Errorf("invalid CACHE_TYPE: %s", c.Cache.Type)
	}
	if c.Mode() == ModeProduction && c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Mode() == ModeProduction && c.JWT.RefreshTokenTTL != RefreshTokenLifetime {
		return fmt.Errorf("JWT_REFRESH_TTL must be %s in production", RefreshTokenLifetime)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvAsSlice 读取逗号分隔的列表
func getEnvAsSlice(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
