package cookie

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/config"
)

func TestPolicy_SetAndClearAgree(t *testing.T) {
	for _, mode := range []config.DeployMode{config.ModeDevelopment, config.ModeProduction} {
		t.Run(mode.String(), func(t *testing.T) {
			p := NewPolicy(mode)
			set := p.SetDescriptor()
			clr := p.ClearDescriptor()

			if set.Name != clr.Name || set.HTTPOnly != clr.HTTPOnly || set.Secure != clr.Secure ||
				set.SameSite != clr.SameSite || set.Path != clr.Path {
				t.Fatalf("set/clear descriptors differ: %+v vs %+v", set, clr)
			}
			if set.MaxAge != 7*24*time.Hour {
				t.Errorf("expected set max age 7d, got %v", set.MaxAge)
			}
			if clr.MaxAge != 0 {
				t.Errorf("expected clear descriptor without max age, got %v", clr.MaxAge)
			}
			if !set.HTTPOnly {
				t.Error("cookie must be HttpOnly")
			}
			if set.Path != "/api/v1/auth" {
				t.Errorf("unexpected path %q", set.Path)
			}
		})
	}
}

func TestPolicy_ModeAttributes(t *testing.T) {
	testCases := []struct {
		mode     config.DeployMode
		secure   bool
		sameSite http.SameSite
	}{
		{config.ModeProduction, true, http.SameSiteStrictMode},
		{config.ModeDevelopment, false, http.SameSiteLaxMode},
	}

	for _, tc := range testCases {
		d := NewPolicy(tc.mode).SetDescriptor()
		if d.Secure != tc.secure {
			t.Errorf("%s: expected secure=%v, got %v", tc.mode, tc.secure, d.Secure)
		}
		if d.SameSite != tc.sameSite {
			t.Errorf("%s: expected sameSite=%v, got %v", tc.mode, tc.sameSite, d.SameSite)
		}
	}
}

func TestPolicy_Name(t *testing.T) {
	p := NewPolicy(config.ModeDevelopment)
	if p.Name() != "refreshToken" {
		t.Fatalf("unexpected cookie name %q", p.Name())
	}
	if p.SetDescriptor().Name != p.Name() || p.ClearDescriptor().Name != p.Name() {
		t.Fatal("descriptors must share the cookie name")
	}
}

func TestPolicy_WriteAndClearHeaders(t *testing.T) {
	p := NewPolicy(config.ModeProduction)

	rec := httptest.NewRecorder()
	p.Write(rec, "tok")
	set := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"refreshToken=tok", "Path=/api/v1/auth", "Max-Age=604800", "HttpOnly", "Secure", "SameSite=Strict"} {
		if !strings.Contains(set, want) {
			t.Errorf("Set-Cookie %q missing %q", set, want)
		}
	}

	rec = httptest.NewRecorder()
	p.Clear(rec)
	clr := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"refreshToken=", "Path=/api/v1/auth", "Max-Age=0", "HttpOnly", "Secure", "SameSite=Strict"} {
		if !strings.Contains(clr, want) {
			t.Errorf("clear Set-Cookie %q missing %q", clr, want)
		}
	}
}

func TestPolicy_DevelopmentHeaderHasNoSecure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewPolicy(config.ModeDevelopment).Write(rec, "tok")
	set := rec.Header().Get("Set-Cookie")
	if strings.Contains(set, "Secure") {
		t.Errorf("development cookie must not be Secure: %q", set)
	}
	if !strings.Contains(set, "SameSite=Lax") {
		t.Errorf("development cookie must be SameSite=Lax: %q", set)
	}
}

func TestPolicy_Read(t *testing.T) {
	p := NewPolicy(config.ModeDevelopment)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	if got := p.Read(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "abc"})
	if got := p.Read(req); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
}
