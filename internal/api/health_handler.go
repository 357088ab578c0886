package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/resp"
)

// Pinger 可探活的依赖
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc 适配普通函数
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version string
	checks  map[string]Pinger
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// Healthz GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{Status: "ok", Version: h.version}
	code := resp.CodeOK
	if len(h.checks) > 0 {
		status.Checks = make(map[string]string, len(h.checks))
	}
	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			status.Checks[name] = err.Error()
			status.Status = "degraded"
			code = resp.CodeInternalError
			continue
		}
		status.Checks[name] = "ok"
	}

	httpStatus := http.StatusOK
	if code != resp.CodeOK {
		httpStatus = http.StatusServiceUnavailable
	}
	resp.WriteJSON(c.Writer, httpStatus, code, status.Status, &status, requestID(c), "")
}
