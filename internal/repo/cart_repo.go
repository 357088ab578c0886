package repo

import (
	"context"
	"fmt"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/database"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

// CartRepository 定义购物车数据访问接口
type CartRepository interface {
	// Upsert 加入购物车，已存在则累加数量，累加结果不超过 domain.MaxCartQuantity
	Upsert(ctx context.Context, item *domain.CartItem) error
	// Remove 移除条目，返回是否确有删除
	Remove(ctx context.Context, userID, menuID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error)
}

type cartRepo struct {
	db *database.DB
}

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *database.DB) CartRepository {
	return &cartRepo{db: db}
}

// Upsert 依赖 (user_id, menu_id) 主键做原子合并
func (r *cartRepo) Upsert(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, menu_id, restaurant_id, name, price, quantity)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			restaurant_id = VALUES(restaurant_id),
			name = VALUES(name),
			price = VALUES(price),
			quantity = LEAST(quantity + VALUES(quantity), ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.UserID,
		item.MenuID,
		item.RestaurantID,
		item.Name,
		item.Price,
		item.Quantity,
		domain.MaxCartQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// Remove 删除购物车条目
func (r *cartRepo) Remove(ctx context.Context, userID, menuID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ? AND menu_id = ?`, userID, menuID)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get affected rows: %w", err)
	}
	return affected > 0, nil
}

// ListByUser 按加入时间列出用户购物车
func (r *cartRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error) {
	query := `
		SELECT user_id, menu_id, restaurant_id, name, price, quantity, created_at, updated_at
		FROM cart_items WHERE user_id = ?
		ORDER BY created_at ASC, menu_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []*domain.CartItem
	for rows.Next() {
		item := &domain.CartItem{}
		if err := rows.Scan(
			&item.UserID,
			&item.MenuID,
			&item.RestaurantID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}
