package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetAndClearRefreshCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetRefreshCookie(rec, "token-value", 15*24*time.Hour, false)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != RefreshCookieName || c.Value != "token-value" {
		t.Fatalf("unexpected cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Fatal("refresh cookie must be http only")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.Path != "/" {
		t.Fatalf("expected Path=/, got %q", c.Path)
	}
	if c.MaxAge != int((15 * 24 * time.Hour).Seconds()) {
		t.Fatalf("unexpected MaxAge %d", c.MaxAge)
	}

	rec = httptest.NewRecorder()
	ClearRefreshCookie(rec, false)
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatal("expected clearing cookie with negative MaxAge")
	}
}

func TestRefreshTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	if _, ok := RefreshTokenFromRequest(req); ok {
		t.Fatal("expected no token without cookie")
	}

	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "abc"})
	token, ok := RefreshTokenFromRequest(req)
	if !ok || token != "abc" {
		t.Fatalf("expected token abc, got %q (ok=%v)", token, ok)
	}
}
