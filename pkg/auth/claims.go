package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes the two halves of the token pair. The type claim
// is enforced on parse so a refresh token can never be used as an access
// token or vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents the typed JWT issued to clients. Subject carries the
// account id.
type Claims struct {
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// EmailClaims is the short-lived token embedded in verification links.
type EmailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
