package domain

import "time"

// MaxCartQuantity 单个菜品在购物车中的数量上限
const MaxCartQuantity = 50

// CartItem 购物车条目，(UserID, MenuID) 唯一
type CartItem struct {
	UserID       int64     `json:"user_id"`
	MenuID       int64     `json:"menu_id"`
	RestaurantID int64     `json:"restaurant_id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Subtotal 条目小计
func (i *CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart 用户购物车
type Cart struct {
	Items []*CartItem `json:"items"`
	Total float64     `json:"total"`
}

// NewCart 汇总条目生成购物车
func NewCart(items []*CartItem) *Cart {
	cart := &Cart{Items: items}
	if cart.Items == nil {
		cart.Items = []*CartItem{}
	}
	for _, item := range cart.Items {
		cart.Total += item.Subtotal()
	}
	return cart
}

// AddToCartRequest 加入购物车请求（已通过校验）
type AddToCartRequest struct {
	MenuID       int64   `json:"menuId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	RestaurantID int64   `json:"restaurantId"`
}

// RemoveCartItemRequest 移除购物车条目请求（已通过校验）
type RemoveCartItemRequest struct {
	MenuID int64 `json:"menuId"`
}
