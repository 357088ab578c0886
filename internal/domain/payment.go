package domain

import "time"

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCOD  PaymentMethod = "cod"
)

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment 支付记录
// User/Order 由持久层决定是否展开
type Payment struct {
	ID             int64
	User           UserRef
	Order          OrderRef
	Amount         float64
	Method         PaymentMethod
	Status         PaymentStatus
	GatewayOrderID string // 支付网关侧的订单号
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
