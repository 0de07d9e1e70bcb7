package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgauth "github.com/mofihq/mofi-backend/pkg/auth"
	"github.com/mofihq/mofi-backend/pkg/config"
)

func sessionTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:              "controller-test-secret",
			Issuer:              "mofi-test",
			AccessExpiryMinutes: 15,
			RefreshExpiryDays:   15,
		},
	}
}

func refreshRequest(cookie string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: pkgauth.RefreshCookieName, Value: cookie})
	}
	return req
}

func refreshCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == pkgauth.RefreshCookieName {
			return c
		}
	}
	return nil
}

func TestSessionRefreshRotatesPair(t *testing.T) {
	cfg := sessionTestConfig()
	now := time.Now().UTC().Add(-2 * time.Second)
	refresh, err := pkgauth.MintRefreshToken(cfg.JWT, now, "producer-1")
	if err != nil {
		t.Fatalf("mint refresh: %v", err)
	}

	rec := httptest.NewRecorder()
	SessionRefresh(cfg, nil)(rec, refreshRequest(refresh))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"access"`) {
		t.Fatalf("expected access token in body: %s", rec.Body.String())
	}

	cookie := refreshCookieFrom(t, rec)
	if cookie == nil {
		t.Fatal("expected a rotated refresh cookie")
	}
	if cookie.Value == "" || cookie.Value == refresh {
		t.Fatalf("refresh cookie was not rotated")
	}
	if !cookie.HttpOnly || cookie.MaxAge <= 0 {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	claims, err := pkgauth.ParseToken(cfg.JWT, cookie.Value, pkgauth.TokenTypeRefresh)
	if err != nil {
		t.Fatalf("rotated cookie is not a valid refresh token: %v", err)
	}
	if claims.Subject != "producer-1" {
		t.Fatalf("subject changed across rotation: %q", claims.Subject)
	}
}

func TestSessionRefreshRejectsBadCookies(t *testing.T) {
	cfg := sessionTestConfig()

	expired, err := pkgauth.MintRefreshToken(cfg.JWT, time.Now().UTC().AddDate(0, 0, -30), "producer-1")
	if err != nil {
		t.Fatalf("mint refresh: %v", err)
	}
	access, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), "producer-1")
	if err != nil {
		t.Fatalf("mint access: %v", err)
	}

	tests := []struct {
		name   string
		cookie string
	}{
		{name: "missing cookie", cookie: ""},
		{name: "garbage token", cookie: "not.a.jwt"},
		{name: "expired refresh", cookie: expired},
		{name: "access token in refresh cookie", cookie: access},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SessionRefresh(cfg, nil)(rec, refreshRequest(tt.cookie))

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
			}
			// The stored cookie stays valid until it expires on its own;
			// a failed refresh must not touch it.
			if c := refreshCookieFrom(t, rec); c != nil {
				t.Fatalf("failure response must not set a refresh cookie, got %+v", c)
			}
		})
	}
}

func TestSessionLogoutAlwaysClearsCookie(t *testing.T) {
	cfg := sessionTestConfig()

	rec := httptest.NewRecorder()
	SessionLogout(cfg, nil)(rec, refreshRequest(""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := refreshCookieFrom(t, rec)
	if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected an expiring empty cookie, got %+v", cookie)
	}
}
