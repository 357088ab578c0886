// Package service 提供业务逻辑层实现。
// 服务层负责协调领域对象和仓储，实现具体的业务用例。
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/repo"
)

// 定义业务错误
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService 定义用户服务接口
type UserService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error)
}

// userService 是 UserService 接口的实现
type userService struct {
	userRepo repo.UserRepository
	cost     int
	logger   *zap.Logger
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo repo.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		cost:     bcrypt.DefaultCost,
		logger:   logger,
	}
}

// maxPasswordBytes bcrypt 可接受的最大密码长度
const maxPasswordBytes = 72

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming 用户不存在时也做一次 bcrypt 比较，响应耗时与密码错误一致
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Signup 用户注册
// 请求已通过校验中间件，邮箱已规范化为小写
func (s *userService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("failed to check email", zap.Error(err))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         domain.UserRoleCustomer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 重新读取以获得数据库生成的时间戳
	if created, err := s.userRepo.GetByID(ctx, user.ID); err == nil && created != nil {
		user = created
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID))
	return user, nil
}

// Login 用户登录
// 邮箱不存在与密码错误统一返回 ErrInvalidCredentials
func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, error) {
	// bcrypt 比较时只取前 72 字节，更长的密码不可能是注册时设置的密码
	if len(req.Password) > maxPasswordBytes {
		equalizeTiming(req.Password)
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user == nil {
		equalizeTiming(req.Password)
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to compare password", zap.Error(err))
		return nil, fmt.Errorf("compare password: %w", err)
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return user, nil
}

// GetUserByID 根据ID获取用户
func (s *userService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user by id", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers 分页列出用户（管理员）
func (s *userService) ListUsers(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error) {
	out, err := s.userRepo.List(ctx, page)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		return out, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}
