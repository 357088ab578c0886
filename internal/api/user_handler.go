package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/dto"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
)

// UserHandler 用户管理HTTP处理器（管理员）
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// List GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.userService.ListUsers(c.Request.Context(), pageRequest(c))
	if err != nil {
		h.logger.Error("list users failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "list users failed")
		return
	}
	resp.OK(c.Writer, dto.ToUserPage(page), requestID(c), "")
}
