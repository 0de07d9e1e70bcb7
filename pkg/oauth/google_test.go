package oauth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mofihq/mofi-backend/pkg/config"
)

func TestNewGoogleProviderValidates(t *testing.T) {
	if _, err := NewGoogleProvider(config.GoogleOAuthConfig{}); err == nil {
		t.Fatal("expected missing credentials error")
	}
	if _, err := NewGoogleProvider(config.GoogleOAuthConfig{ClientID: "id", ClientSecret: "secret"}); err == nil {
		t.Fatal("expected missing redirect uri error")
	}
}

func TestAuthURLCarriesState(t *testing.T) {
	provider, err := NewGoogleProvider(config.GoogleOAuthConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "https://api.example.com/auth/google/callback",
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	u := provider.AuthURL("state-123")
	if !strings.Contains(u, "state=state-123") {
		t.Fatalf("state missing from %s", u)
	}
	if !strings.Contains(u, "client_id=id") {
		t.Fatalf("client id missing from %s", u)
	}
	if !strings.Contains(u, "scope=openid+email+profile") {
		t.Fatalf("scopes missing from %s", u)
	}
}

func TestIdentityFromIDToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   "crew@example.com",
		"name":    "Crew Member",
		"picture": "https://lh3.googleusercontent.com/pic",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString([]byte("any"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}

	identity, err := identityFromIDToken(raw)
	if err != nil {
		t.Fatalf("extract identity: %v", err)
	}
	if identity.Email != "crew@example.com" {
		t.Fatalf("unexpected email %q", identity.Email)
	}
	if identity.Name != "Crew Member" {
		t.Fatalf("unexpected name %q", identity.Name)
	}
	if identity.Picture == "" {
		t.Fatal("picture not extracted")
	}
}

func TestIdentityFromIDTokenRequiresEmail(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"name": "No Email"})
	raw, err := token.SignedString([]byte("any"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}

	if _, err := identityFromIDToken(raw); err == nil {
		t.Fatal("expected missing email error")
	}
}
