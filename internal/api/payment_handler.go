package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/dto"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
)

// PaymentHandler 支付记录HTTP处理器
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler 创建支付处理器实例
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

// ListMine GET /api/v1/payments
func (h *PaymentHandler) ListMine(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	page, err := h.paymentService.ListMine(c.Request.Context(), user.ID, pageRequest(c))
	if err != nil {
		h.logger.Error("list payments failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "list payments failed")
		return
	}
	resp.OK(c.Writer, dto.ToPaymentPage(page), requestID(c), "")
}

// ListAll GET /api/v1/admin/payments
func (h *PaymentHandler) ListAll(c *gin.Context) {
	page, err := h.paymentService.ListAll(c.Request.Context(), pageRequest(c))
	if err != nil {
		h.logger.Error("list all payments failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "list payments failed")
		return
	}
	resp.OK(c.Writer, dto.ToAdminPaymentPage(page), requestID(c), "")
}
