// Package cookie 集中定义刷新令牌 Cookie 的属性。
//
// 浏览器只有在清除指令的 name/path/domain/SameSite 与设置时完全一致时才会删除 Cookie，
// 属性稍有偏差（例如 path 不同）就会静默失败。因此设置与清除两个描述符都从同一个
// base() 派生，唯一差别是设置时带 MaxAge。
package cookie

import (
	"net/http"
	"time"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/config"
)

const (
	// RefreshTokenName 刷新令牌 Cookie 名
	RefreshTokenName = "refreshToken"

	// AuthPath 认证路由前缀，Cookie 不会被发送到其他接口
	AuthPath = "/api/v1/auth"

	// RefreshTokenTTL 与刷新令牌自身有效期一致，Cookie 不会比它携带的凭证活得更久
	RefreshTokenTTL = config.RefreshTokenLifetime
)

// Descriptor Cookie 属性集合
// MaxAge 为 0 表示不携带过期属性
type Descriptor struct {
	Name     string
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
	Path     string
	MaxAge   time.Duration
}

// Policy 刷新令牌 Cookie 策略，启动时根据部署模式构建，之后不可变
type Policy struct {
	mode config.DeployMode
}

// NewPolicy 创建 Cookie 策略
func NewPolicy(mode config.DeployMode) *Policy {
	return &Policy{mode: mode}
}

// Name 返回 Cookie 名，设置与清除共用
func (p *Policy) Name() string {
	return RefreshTokenName
}

// base 设置与清除共享的属性
// 非生产环境放宽为 Secure=false、SameSite=Lax，便于本地 http 调试
func (p *Policy) base() Descriptor {
	prod := p.mode == config.ModeProduction
	sameSite := http.SameSiteLaxMode
	if prod {
		sameSite = http.SameSiteStrictMode
	}
	return Descriptor{
		Name:     p.Name(),
		HTTPOnly: true,
		Secure:   prod,
		SameSite: sameSite,
		Path:     AuthPath,
	}
}

// SetDescriptor 登录/刷新时使用的属性
func (p *Policy) SetDescriptor() Descriptor {
	d := p.base()
	d.MaxAge = RefreshTokenTTL
	return d
}

// ClearDescriptor 登出时使用的属性，不带 MaxAge
func (p *Policy) ClearDescriptor() Descriptor {
	return p.base()
}

// Cookie 将描述符渲染为 http.Cookie。
// 没有 MaxAge 的描述符视为清除指令，输出 Max-Age=0 让浏览器立即删除。
func (d Descriptor) Cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     d.Name,
		Value:    value,
		Path:     d.Path,
		HttpOnly: d.HTTPOnly,
		Secure:   d.Secure,
		SameSite: d.SameSite,
	}
	if d.MaxAge > 0 {
		c.MaxAge = int(d.MaxAge / time.Second)
	} else {
		c.MaxAge = -1
	}
	return c
}

// Write 在响应中下发刷新令牌
func (p *Policy) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, p.SetDescriptor().Cookie(token))
}

// Clear 在响应中清除刷新令牌
func (p *Policy) Clear(w http.ResponseWriter) {
	http.SetCookie(w, p.ClearDescriptor().Cookie(""))
}

// Read 从请求中读取刷新令牌，不存在时返回空串
func (p *Policy) Read(r *http.Request) string {
	c, err := r.Cookie(p.Name())
	if err != nil {
		return ""
	}
	return c.Value
}
