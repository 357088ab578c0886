package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/repo"
)

// ErrCartItemNotFound 购物车中没有该菜品
var ErrCartItemNotFound = errors.New("cart item not found")

// CartService 定义购物车服务接口，写操作返回更新后的购物车
type CartService interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	AddItem(ctx context.Context, userID int64, req *domain.AddToCartRequest) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, menuID int64) (*domain.Cart, error)
}

type cartService struct {
	cartRepo repo.CartRepository
	logger   *zap.Logger
}

// NewCartService 创建购物车服务实例
func NewCartService(cartRepo repo.CartRepository, logger *zap.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		logger:   logger,
	}
}

// GetCart 获取用户购物车
func (s *cartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list cart items", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return domain.NewCart(items), nil
}

// AddItem 加入购物车，同一菜品累加数量
func (s *cartService) AddItem(ctx context.Context, userID int64, req *domain.AddToCartRequest) (*domain.Cart, error) {
	item := &domain.CartItem{
		UserID:       userID,
		MenuID:       req.MenuID,
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Price:        req.Price,
		Quantity:     req.Quantity,
	}

	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		s.logger.Error("failed to add cart item",
			zap.Int64("user_id", userID),
			zap.Int64("menu_id", req.MenuID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem 移除购物车条目
func (s *cartService) RemoveItem(ctx context.Context, userID, menuID int64) (*domain.Cart, error) {
	removed, err := s.cartRepo.Remove(ctx, userID, menuID)
	if err != nil {
		s.logger.Error("failed to remove cart item",
			zap.Int64("user_id", userID),
			zap.Int64("menu_id", menuID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	if !removed {
		return nil, ErrCartItemNotFound
	}

	return s.GetCart(ctx, userID)
}
