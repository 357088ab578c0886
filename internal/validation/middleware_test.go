package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

func newTestEngine(rs RuleSet, path string, method string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, path, New().Middleware(rs, zap.NewNop()), handler)
	return r
}

func TestMiddleware_RejectsWithFieldErrors(t *testing.T) {
	called := false
	r := newTestEngine(Signup, "/signup", http.MethodPost, func(c *gin.Context) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"name":"J","email":"nope","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if called {
		t.Fatal("handler must not run when validation fails")
	}

	var out struct {
		Data struct {
			Errors map[string]string `json:"errors"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(out.Data.Errors) != 2 || out.Data.Errors["name"] == "" || out.Data.Errors["email"] == "" {
		t.Fatalf("unexpected errors: %v", out.Data.Errors)
	}
}

func TestMiddleware_BindsNormalizedValues(t *testing.T) {
	var got domain.SignupRequest
	r := newTestEngine(Signup, "/signup", http.MethodPost, func(c *gin.Context) {
		if err := Bind(c, &got); err != nil {
			t.Errorf("bind failed: %v", err)
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"name":" Jo ","email":" Jo@Example.COM","password":"longenough"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Name != "Jo" || got.Email != "jo@example.com" || got.Password != "longenough" {
		t.Fatalf("unexpected bound request: %+v", got)
	}
}

func TestMiddleware_InvalidJSON(t *testing.T) {
	r := newTestEngine(Login, "/login", http.MethodPost, func(c *gin.Context) {
		t.Error("handler must not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`[1,2`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMiddleware_PathParam(t *testing.T) {
	var got domain.RemoveCartItemRequest
	r := newTestEngine(RemoveCartItem, "/cart/:menuId", http.MethodDelete, func(c *gin.Context) {
		if err := Bind(c, &got); err != nil {
			t.Errorf("bind failed: %v", err)
		}
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/cart/12", nil))
	if rr.Code != http.StatusOK || got.MenuID != 12 {
		t.Fatalf("expected menuId 12 bound, got code=%d req=%+v", rr.Code, got)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/cart/zero", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-integer menuId, got %d", rr.Code)
	}
}

func TestBind_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	var req domain.LoginRequest
	if err := Bind(c, &req); err != ErrNotValidated {
		t.Fatalf("expected ErrNotValidated, got %v", err)
	}
}
