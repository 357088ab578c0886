// Package limiter 提供基于 Redis 令牌桶的限流器与 gin 中间件
package limiter

import (
	"context"
	"time"
)

// LimitResult 限流结果
type LimitResult struct {
	Allowed    bool          `json:"allowed"`     // 是否允许通过
	Remaining  int64         `json:"remaining"`   // 剩余配额
	RetryAfter time.Duration `json:"retry_after"` // 建议重试时间
}

// Limiter 限流器接口
type Limiter interface {
	// Allow 检查是否允许请求通过
	Allow(ctx context.Context, key string) (*LimitResult, error)

	// AllowN 检查是否允许N个请求通过
	AllowN(ctx context.Context, key string, n int64) (*LimitResult, error)

	// Reset 重置限流状态
	Reset(ctx context.Context, key string) error
}

// Config 限流配置
type Config struct {
	Rate      int64         // 每个窗口补充的令牌数
	Window    time.Duration // 时间窗口
	Burst     int64         // 桶容量
	KeyPrefix string
}

// NoopLimiter 总是放行，用于关闭限流或 Redis 不可用时
type NoopLimiter struct{}

func (NoopLimiter) Allow(ctx context.Context, key string) (*LimitResult, error) {
	return &LimitResult{Allowed: true, Remaining: -1}, nil
}

func (NoopLimiter) AllowN(ctx context.Context, key string, n int64) (*LimitResult, error) {
	return &LimitResult{Allowed: true, Remaining: -1}, nil
}

func (NoopLimiter) Reset(ctx context.Context, key string) error {
	return nil
}
