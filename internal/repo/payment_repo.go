package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/database"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

// PaymentRepository 定义支付记录数据访问接口
type PaymentRepository interface {
	// ListByUser 列出某用户的支付记录，引用不展开
	ListByUser(ctx context.Context, userID int64, page domain.PageRequest) (domain.Page[*domain.Payment], error)
	// List 列出全部支付记录，expand 为 true 时展开用户与订单
	List(ctx context.Context, page domain.PageRequest, expand bool) (domain.Page[*domain.Payment], error)
}

type paymentRepo struct {
	db *database.DB
}

// NewPaymentRepository 创建支付仓储实例
func NewPaymentRepository(db *database.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `p.id, p.user_id, p.order_id, p.amount, p.method, p.status, p.gateway_order_id, p.created_at, p.updated_at`

// 展开时关联的用户/订单列，LEFT JOIN 下可能为 NULL
const expandColumns = `,
	u.id, u.name, u.email, u.role, u.created_at, u.updated_at,
	o.id, o.user_id, o.total_amount, o.status, o.created_at, o.updated_at`

func scanPayment(s rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var userID, orderID int64
	if err := s.Scan(
		&p.ID,
		&userID,
		&orderID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.GatewayOrderID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.User = domain.UserID(userID)
	p.Order = domain.OrderID(orderID)
	return p, nil
}

func scanExpandedPayment(s rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var (
		userID, orderID int64

		uID                    sql.NullInt64
		uName, uEmail, uRole   sql.NullString
		uCreatedAt, uUpdatedAt sql.NullTime
		oID, oUserID           sql.NullInt64
		oTotal                 sql.NullFloat64
		oStatus                sql.NullString
		oCreatedAt, oUpdatedAt sql.NullTime
	)
	if err := s.Scan(
		&p.ID, &userID, &orderID, &p.Amount, &p.Method, &p.Status, &p.GatewayOrderID, &p.CreatedAt, &p.UpdatedAt,
		&uID, &uName, &uEmail, &uRole, &uCreatedAt, &uUpdatedAt,
		&oID, &oUserID, &oTotal, &oStatus, &oCreatedAt, &oUpdatedAt,
	); err != nil {
		return nil, err
	}

	p.User = domain.UserID(userID)
	if uID.Valid {
		p.User = domain.ExpandedUser(userID, &domain.User{
			ID:        uID.Int64,
			Name:      uName.String,
			Email:     uEmail.String,
			Role:      domain.UserRole(uRole.String),
			CreatedAt: nullTime(uCreatedAt),
			UpdatedAt: nullTime(uUpdatedAt),
		})
	}

	p.Order = domain.OrderID(orderID)
	if oID.Valid {
		p.Order = domain.ExpandedOrder(orderID, &domain.Order{
			ID:          oID.Int64,
			UserID:      oUserID.Int64,
			TotalAmount: oTotal.Float64,
			Status:      domain.OrderStatus(oStatus.String),
			CreatedAt:   nullTime(oCreatedAt),
			UpdatedAt:   nullTime(oUpdatedAt),
		})
	}
	return p, nil
}

func nullTime(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}

// ListByUser 分页查询用户自己的支付记录
func (r *paymentRepo) ListByUser(ctx context.Context, userID int64, page domain.PageRequest) (domain.Page[*domain.Payment], error) {
	page = page.Normalize()
	out := domain.Page[*domain.Payment]{Page: page.Page, Limit: page.Limit}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE user_id = ?`, userID).Scan(&out.Total); err != nil {
		return out, fmt.Errorf("count payments: %w", err)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments p
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, page.Limit, page.Offset())
	if err != nil {
		return out, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return out, fmt.Errorf("scan payment: %w", err)
		}
		out.Data = append(out.Data, p)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}

// List 分页查询全部支付记录（管理员）
// 关联记录缺失时引用保持未展开，ID 仍保留
func (r *paymentRepo) List(ctx context.Context, page domain.PageRequest, expand bool) (domain.Page[*domain.Payment], error) {
	page = page.Normalize()
	out := domain.Page[*domain.Payment]{Page: page.Page, Limit: page.Limit}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&out.Total); err != nil {
		return out, fmt.Errorf("count payments: %w", err)
	}

	scan := scanPayment
	query := `SELECT ` + paymentColumns + ` FROM payments p`
	if expand {
		scan = scanExpandedPayment
		query = `SELECT ` + paymentColumns + expandColumns + ` FROM payments p
			LEFT JOIN users u ON u.id = p.user_id
			LEFT JOIN orders o ON o.id = p.order_id`
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, page.Limit, page.Offset())
	if err != nil {
		return out, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return out, fmt.Errorf("scan payment: %w", err)
		}
		out.Data = append(out.Data, p)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}
