package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/repo"
)

// PaymentService 定义支付记录查询服务
type PaymentService interface {
	// ListMine 当前用户的支付记录
	ListMine(ctx context.Context, userID int64, page domain.PageRequest) (domain.Page[*domain.Payment], error)
	// ListAll 全部支付记录，展开用户与订单（管理员）
	ListAll(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Payment], error)
}

type paymentService struct {
	paymentRepo repo.PaymentRepository
	logger      *zap.Logger
}

// NewPaymentService 创建支付服务实例
func NewPaymentService(paymentRepo repo.PaymentRepository, logger *zap.Logger) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

func (s *paymentService) ListMine(ctx context.Context, userID int64, page domain.PageRequest) (domain.Page[*domain.Payment], error) {
	out, err := s.paymentRepo.ListByUser(ctx, userID, page)
	if err != nil {
		s.logger.Error("failed to list user payments", zap.Int64("user_id", userID), zap.Error(err))
		return out, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func (s *paymentService) ListAll(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Payment], error) {
	out, err := s.paymentRepo.List(ctx, page, true)
	if err != nil {
		s.logger.Error("failed to list payments", zap.Error(err))
		return out, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}
