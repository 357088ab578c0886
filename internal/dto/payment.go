package dto

import (
	"time"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

// PaymentView 支付视图
type PaymentView struct {
	ID             int64                `json:"id"`
	UserID         int64                `json:"userId"`
	OrderID        int64                `json:"orderId"`
	Amount         float64              `json:"amount"`
	Method         domain.PaymentMethod `json:"method"`
	Status         domain.PaymentStatus `json:"status"`
	GatewayOrderID string               `json:"gatewayOrderId"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// UserSummary 管理端嵌套的用户摘要
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderSummary 管理端嵌套的订单摘要
type OrderSummary struct {
	ID          int64              `json:"id"`
	TotalAmount float64            `json:"totalAmount"`
	Status      domain.OrderStatus `json:"status"`
}

// AdminPaymentView 管理端支付视图
// 仅当引用已展开时才附带 user/order，否则对应键不出现
type AdminPaymentView struct {
	PaymentView
	User  *UserSummary  `json:"user,omitempty"`
	Order *OrderSummary `json:"order,omitempty"`
}

// ToPaymentView 映射单条支付记录
// 外键 ID 总是原样保留，无论引用是否展开
func ToPaymentView(p *domain.Payment) *PaymentView {
	if p == nil {
		return nil
	}
	return &PaymentView{
		ID:             p.ID,
		UserID:         p.User.ID,
		OrderID:        p.Order.ID,
		Amount:         p.Amount,
		Method:         p.Method,
		Status:         p.Status,
		GatewayOrderID: p.GatewayOrderID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToPaymentViews 映射支付列表
func ToPaymentViews(payments []*domain.Payment) []PaymentView {
	return mapAll(payments, ToPaymentView)
}

// ToPaymentPage 映射支付分页
func ToPaymentPage(page domain.Page[*domain.Payment]) PageView[PaymentView] {
	return mapPage(page, ToPaymentView)
}

// ToAdminPaymentView 映射管理端支付视图
// GatewayOrderID 原样输出，未做脱敏（见 DESIGN.md）
func ToAdminPaymentView(p *domain.Payment) *AdminPaymentView {
	base := ToPaymentView(p)
	if base == nil {
		return nil
	}

	view := &AdminPaymentView{PaymentView: *base}
	if u, ok := p.User.Expanded(); ok {
		view.User = &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	if o, ok := p.Order.Expanded(); ok {
		view.Order = &OrderSummary{ID: o.ID, TotalAmount: o.TotalAmount, Status: o.Status}
	}
	return view
}

// ToAdminPaymentViews 映射管理端支付列表
func ToAdminPaymentViews(payments []*domain.Payment) []AdminPaymentView {
	return mapAll(payments, ToAdminPaymentView)
}

// ToAdminPaymentPage 映射管理端支付分页
func ToAdminPaymentPage(page domain.Page[*domain.Payment]) PageView[AdminPaymentView] {
	return mapPage(page, ToAdminPaymentView)
}
