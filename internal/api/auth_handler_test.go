package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/cache"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/config"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/cookie"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/middleware"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/service"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/validation"
)

const testPassword = "correct-horse"

// stubUserService 只认一个固定账号
type stubUserService struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	getErr error
}

func newStubUserService() *stubUserService {
	return &stubUserService{users: map[int64]*domain.User{
		1: {ID: 1, Name: "Alice", Email: "alice@example.com", Role: domain.UserRoleCustomer, PasswordHash: "hash"},
	}}
}

func (s *stubUserService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == req.Email {
			return nil, service.ErrUserExists
		}
	}
	u := &domain.User{ID: int64(len(s.users) + 1), Name: req.Name, Email: req.Email, Role: domain.UserRoleCustomer}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == req.Email && req.Password == testPassword {
			return u, nil
		}
	}
	return nil, service.ErrInvalidCredentials
}

func (s *stubUserService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func (s *stubUserService) ListUsers(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error) {
	return domain.Page[*domain.User]{}, nil
}

// newAuthEngine 以生产模式装配认证路由
func newAuthEngine(t *testing.T) *gin.Engine {
	t.Helper()
	r, _ := newAuthEngineWithUsers(t)
	return r
}

func newAuthEngineWithUsers(t *testing.T) (*gin.Engine, *stubUserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Name = "food-server-test"
	cfg.App.Env = "production"
	cfg.JWT.Secret = "auth-handler-test-secret"
	cfg.JWT.AccessTokenTTL = time.Minute
	cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour

	lg := zap.NewNop()
	users := newStubUserService()
	jwtService := service.NewJWTService(cfg, lg)
	sessions := service.NewSessionService(jwtService, users, cache.NewMemoryCache(), lg)
	h := NewAuthHandler(users, sessions, cookie.NewPolicy(cfg.Mode()), lg)

	v := validation.New()
	r := gin.New()
	r.Use(middleware.RequestID())
	auth := r.Group("/api/v1/auth")
	auth.POST("/signup", v.Middleware(validation.Signup, lg), h.Signup)
	auth.POST("/login", v.Middleware(validation.Login, lg), h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", h.Logout)
	return r, users
}

func post(r http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.RefreshTokenName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookie.RefreshTokenName)
	return nil
}

func assertCookieAttrs(t *testing.T, header string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(header, w) {
			t.Errorf("Set-Cookie %q missing %q", header, w)
		}
	}
}

func login(t *testing.T, r http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	rec := post(r, "/api/v1/auth/login", `{"email":" Alice@Example.com ","password":"`+testPassword+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	return rec
}

func TestAuthHandler_LoginSetsProductionCookie(t *testing.T) {
	r := newAuthEngine(t)
	rec := login(t, r)

	assertCookieAttrs(t, rec.Header().Get("Set-Cookie"),
		"refreshToken=", "Path=/api/v1/auth", "Max-Age=604800", "HttpOnly", "Secure", "SameSite=Strict")

	var body struct {
		Data struct {
			User        map[string]any `json:"user"`
			AccessToken string         `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Data.AccessToken == "" {
		t.Error("expected access token in body")
	}
	if body.Data.User["email"] != "alice@example.com" {
		t.Errorf("unexpected user %v", body.Data.User)
	}
	if _, leaked := body.Data.User["passwordHash"]; leaked {
		t.Error("password hash must not be serialized")
	}
	if strings.Contains(rec.Body.String(), "refreshToken") {
		t.Error("refresh token must only travel in the cookie")
	}
}

func TestAuthHandler_LoginRejected(t *testing.T) {
	r := newAuthEngine(t)

	rec := post(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"wrong-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Error("failed login must not set a cookie")
	}
}

func TestAuthHandler_SignupConflict(t *testing.T) {
	r := newAuthEngine(t)

	rec := post(r, "/api/v1/auth/signup", `{"name":"Al","email":"ALICE@example.com","password":"longenough"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	rec = post(r, "/api/v1/auth/signup", `{"name":"Bob","email":"bob@example.com","password":"longenough"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	refreshCookie(t, rec)
}

func TestAuthHandler_RefreshRotates(t *testing.T) {
	r := newAuthEngine(t)
	first := refreshCookie(t, login(t, r))

	rec := post(r, "/api/v1/auth/refresh", "", first)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", rec.Code)
	}
	second := refreshCookie(t, rec)
	if second.Value == first.Value {
		t.Fatal("refresh must issue a new token")
	}

	// 旧令牌再次使用被拒绝，同时清除 Cookie
	rec = post(r, "/api/v1/auth/refresh", "", first)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("reuse: expected 401, got %d", rec.Code)
	}
	assertCookieAttrs(t, rec.Header().Get("Set-Cookie"), "refreshToken=", "Path=/api/v1/auth", "Max-Age=0")
}

func TestAuthHandler_RefreshWithoutCookie(t *testing.T) {
	r := newAuthEngine(t)

	rec := post(r, "/api/v1/auth/refresh", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	r := newAuthEngine(t)
	token := refreshCookie(t, login(t, r))

	rec := post(r, "/api/v1/auth/logout", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	assertCookieAttrs(t, rec.Header().Get("Set-Cookie"),
		"refreshToken=", "Path=/api/v1/auth", "Max-Age=0", "HttpOnly", "Secure", "SameSite=Strict")

	// 登出后的令牌不能再换新
	rec = post(r, "/api/v1/auth/refresh", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", rec.Code)
	}

	// 无 Cookie 的登出同样成功
	if rec := post(r, "/api/v1/auth/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout without cookie: expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_PasswordOver72Bytes(t *testing.T) {
	r := newAuthEngine(t)
	long := strings.Repeat("p", 73)

	rec := post(r, "/api/v1/auth/signup", `{"name":"Long","email":"long@example.com","password":"`+long+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("signup: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data struct {
			Errors map[string]string `json:"errors"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Data.Errors["password"] != "Password must be at most 72 bytes" || len(body.Data.Errors) != 1 {
		t.Errorf("unexpected field errors %v", body.Data.Errors)
	}

	rec = post(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"`+long+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login: expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_RefreshBackendFailureClearsCookie(t *testing.T) {
	r, users := newAuthEngineWithUsers(t)
	token := refreshCookie(t, login(t, r))

	users.mu.Lock()
	users.getErr = errors.New("database unavailable")
	users.mu.Unlock()

	rec := post(r, "/api/v1/auth/refresh", "", token)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	assertCookieAttrs(t, rec.Header().Get("Set-Cookie"), "refreshToken=", "Path=/api/v1/auth", "Max-Age=0")
}
