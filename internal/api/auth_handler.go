package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/cookie"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/dto"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
)

// AuthResponse 登录/注册/刷新的响应体，刷新令牌只走 Cookie
type AuthResponse struct {
	User        *dto.UserView `json:"user"`
	AccessToken string        `json:"accessToken"`
}

// AuthHandler 认证相关的HTTP处理器
type AuthHandler struct {
	userService    service.UserService
	sessionService service.SessionService
	cookies        *cookie.Policy
	logger         *zap.Logger
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(userService service.UserService, sessionService service.SessionService, cookies *cookie.Policy, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		cookies:        cookies,
		logger:         logger,
	}
}

// startSession 签发令牌并写 Cookie
func (h *AuthHandler) startSession(c *gin.Context, user *domain.User, status int) {
	reqID := requestID(c)

	session, err := h.sessionService.Start(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("failed to start session", zap.String("request_id", reqID), zap.Error(err))
		internalError(c, "token generation failed")
		return
	}

	h.cookies.Write(c.Writer, session.RefreshToken)
	resp.WriteJSON(c.Writer, status, resp.CodeOK, "success", &AuthResponse{
		User:        dto.ToUserView(session.User),
		AccessToken: session.AccessToken,
	}, reqID, "")
}

// Signup 处理用户注册请求
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if !bind(c, &req, h.logger) {
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			resp.Error(c.Writer, http.StatusConflict, resp.CodeConflict, "email already registered", requestID(c), "")
			return
		}
		h.logger.Error("signup failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "signup failed")
		return
	}

	h.startSession(c, user, http.StatusCreated)
}

// Login 处理用户登录请求
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bind(c, &req, h.logger) {
		return
	}

	user, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, "invalid email or password", requestID(c), "")
			return
		}
		h.logger.Error("login failed", zap.String("request_id", requestID(c)), zap.Error(err))
		internalError(c, "login failed")
		return
	}

	h.startSession(c, user, http.StatusOK)
}

// Refresh 用 Cookie 中的刷新令牌换取新的令牌对
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	reqID := requestID(c)

	token := h.cookies.Read(c.Request)
	if token == "" {
		h.cookies.Clear(c.Writer)
		resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, "refresh token required", reqID, "")
		return
	}

	session, err := h.sessionService.Refresh(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrTokenNotReady),
			errors.Is(err, service.ErrTokenRevoked):
			h.logger.Info("refresh rejected", zap.String("request_id", reqID), zap.Error(err))
			h.cookies.Clear(c.Writer)
			resp.Error(c.Writer, http.StatusUnauthorized, resp.CodeUnauthorized, "invalid or expired refresh token", reqID, "")
		default:
			// 旧令牌可能已被消费，Cookie 不再可用
			h.logger.Error("refresh failed", zap.String("request_id", reqID), zap.Error(err))
			h.cookies.Clear(c.Writer)
			internalError(c, "refresh failed")
		}
		return
	}

	h.cookies.Write(c.Writer, session.RefreshToken)
	resp.OK(c.Writer, &AuthResponse{
		User:        dto.ToUserView(session.User),
		AccessToken: session.AccessToken,
	}, reqID, "")
}

// Logout 吊销刷新令牌并清除 Cookie，无论令牌是否有效都返回成功
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	reqID := requestID(c)

	if err := h.sessionService.End(c.Request.Context(), h.cookies.Read(c.Request)); err != nil {
		h.logger.Error("failed to revoke session", zap.String("request_id", reqID), zap.Error(err))
	}

	h.cookies.Clear(c.Writer)
	resp.OK[any](c.Writer, nil, reqID, "")
}

// Me 获取当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	reqID := requestID(c)

	principal, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			resp.Error(c.Writer, http.StatusNotFound, resp.CodeNotFound, "user not found", reqID, "")
			return
		}
		h.logger.Error("get profile failed", zap.String("request_id", reqID), zap.Error(err))
		internalError(c, "get profile failed")
		return
	}

	resp.OK(c.Writer, dto.ToUserView(user), reqID, "")
}
