package repo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/cache"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

// cachedUser 是缓存中的用户快照
// domain.User 的 PasswordHash 不参与 JSON，缓存里只放展示字段
type cachedUser struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (c *cachedUser) toDomain() *domain.User {
	return &domain.User{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CachedUserRepository 按 ID 缓存用户，供 /auth/me 与刷新令牌时查询
// 按邮箱查询用于登录校验密码，必须直连数据库
type CachedUserRepository struct {
	repo   UserRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository 创建带缓存的用户仓储
func NewCachedUserRepository(repo UserRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) UserRepository {
	return &CachedUserRepository{
		repo:   repo,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func userCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// Create 创建用户
func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.repo.Create(ctx, user); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, userCacheKey(user.ID)); err != nil {
		r.logger.Warn("failed to evict user cache", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// GetByID 根据ID获取用户（带缓存）
func (r *CachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	key := userCacheKey(id)

	var snapshot cachedUser
	if err := r.cache.Get(ctx, key, &snapshot); err == nil {
		return snapshot.toDomain(), nil
	}

	user, err := r.repo.GetByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}

	snapshot = cachedUser{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if err := r.cache.Set(ctx, key, &snapshot, r.ttl); err != nil {
		r.logger.Warn("failed to cache user", zap.Int64("user_id", id), zap.Error(err))
	}
	return user, nil
}

// GetByEmail 不缓存
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.repo.GetByEmail(ctx, email)
}

// List 不缓存，分页组合太多
func (r *CachedUserRepository) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error) {
	return r.repo.List(ctx, page)
}
