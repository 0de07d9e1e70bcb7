package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mofihq/mofi-backend/pkg/config"
)

// Identity is the subset of the Google profile the platform cares about.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// GoogleProvider exchanges authorization codes for Google identities.
type GoogleProvider struct {
	cfg *oauth2.Config
}

func NewGoogleProvider(cfg config.GoogleOAuthConfig) (*GoogleProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("google oauth client credentials are required")
	}
	if cfg.RedirectURI == "" {
		return nil, errors.New("google oauth redirect uri is required")
	}
	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// AuthURL builds the consent-screen URL for the given state value.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange swaps the authorization code for tokens and extracts the
// identity from the id_token. The id_token arrives over TLS directly from
// Google, so its claims are read without a second signature check.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, errors.New("authorization code is required")
	}

	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response missing id_token")
	}

	return identityFromIDToken(rawIDToken)
}

func identityFromIDToken(rawIDToken string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		return nil, fmt.Errorf("parsing id_token: %w", err)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errors.New("id_token missing email claim")
	}
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)

	return &Identity{Email: email, Name: name, Picture: picture}, nil
}
