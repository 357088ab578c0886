package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler 创建购物车处理器实例
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cartService: cartService, logger: logger}
}

// Get GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("get cart failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "get cart failed")
		return
	}
	resp.OK(c.Writer, cart, requestID(c), "")
}

// Add POST /api/v1/cart
func (h *CartHandler) Add(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req domain.AddToCartRequest
	if !bind(c, &req, h.logger) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.logger.Error("add to cart failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "add to cart failed")
		return
	}
	resp.OK(c.Writer, cart, requestID(c), "")
}

// Remove DELETE /api/v1/cart/:menuId
func (h *CartHandler) Remove(c *gin.Context) {
	user, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req domain.RemoveCartItemRequest
	if !bind(c, &req, h.logger) {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), user.ID, req.MenuID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			resp.Error(c.Writer, http.StatusNotFound, resp.CodeNotFound, "item not in cart", requestID(c), "")
			return
		}
		h.logger.Error("remove from cart failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "remove from cart failed")
		return
	}
	resp.OK(c.Writer, cart, requestID(c), "")
}
