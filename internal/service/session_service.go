package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/cache"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

// ErrRefreshIDConflict 新签发的刷新令牌 jti 已被登记
var ErrRefreshIDConflict = errors.New("refresh token id already registered")

// Session 一次登录或刷新的结果
type Session struct {
	User             *domain.User
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// SessionService 管理刷新令牌的生命周期：登录签发、刷新轮换、登出吊销
type SessionService interface {
	Start(ctx context.Context, user *domain.User) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	End(ctx context.Context, refreshToken string) error
}

type sessionService struct {
	jwt    JWTService
	users  UserService
	store  cache.Cache
	logger *zap.Logger
}

// NewSessionService 创建会话服务
// store 中以 refresh:<jti> 登记仍有效的刷新令牌
func NewSessionService(jwt JWTService, users UserService, store cache.Cache, logger *zap.Logger) SessionService {
	return &sessionService{
		jwt:    jwt,
		users:  users,
		store:  store,
		logger: logger,
	}
}

func refreshKey(jti string) string {
	return "refresh:" + jti
}

// Start 签发令牌对并登记刷新令牌
func (s *sessionService) Start(ctx context.Context, user *domain.User) (*Session, error) {
	pair, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("generate token pair: %w", err)
	}

	// jti 只登记一次，已存在的登记不会被覆盖
	ok, err := s.store.SetNX(ctx, refreshKey(pair.RefreshID), user.ID, s.jwt.RefreshTTL())
	if err != nil {
		s.logger.Error("failed to store refresh token", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	if !ok {
		s.logger.Error("refresh token id already registered", zap.Int64("user_id", user.ID), zap.String("jti", pair.RefreshID))
		return nil, ErrRefreshIDConflict
	}

	return &Session{
		User:             user,
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}, nil
}

// Refresh 轮换刷新令牌：旧 jti 只能被消费一次
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.Take(ctx, refreshKey(claims.ID))
	if err != nil {
		s.logger.Error("failed to consume refresh token", zap.Error(err))
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}
	if !ok {
		s.logger.Warn("refresh token reuse or revoked",
			zap.Int64("user_id", claims.UserID),
			zap.String("jti", claims.ID),
		)
		return nil, ErrTokenRevoked
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.Start(ctx, user)
}

// End 吊销刷新令牌；令牌无效或已过期视为已登出
func (s *sessionService) End(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("logout with unusable refresh token", zap.Error(err))
		return nil
	}

	if err := s.store.Del(ctx, refreshKey(claims.ID)); err != nil {
		s.logger.Error("failed to revoke refresh token", zap.Error(err))
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.Info("session ended", zap.Int64("user_id", claims.UserID))
	return nil
}
