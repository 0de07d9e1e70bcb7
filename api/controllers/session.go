package controllers

import (
	"net/http"
	"time"

	"github.com/mofihq/mofi-backend/api/responses"
	pkgauth "github.com/mofihq/mofi-backend/pkg/auth"
	"github.com/mofihq/mofi-backend/pkg/config"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
)

// SessionRefresh rotates the refresh cookie and issues a fresh access
// token. Any failure leaves the stored cookie untouched and answers 401.
func SessionRefresh(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := pkgauth.RefreshTokenFromRequest(r)
		if !ok {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "missing refresh token")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := pkgauth.ParseToken(cfg.JWT, token, pkgauth.TokenTypeRefresh)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid refresh token")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		access, err := pkgauth.MintAccessToken(cfg.JWT, now, claims.Subject)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		refresh, err := pkgauth.MintRefreshToken(cfg.JWT, now, claims.Subject)
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkgauth.SetRefreshCookie(w, refresh, cfg.JWT.RefreshTTL(), cfg.App.IsProd())
		responses.WriteSuccess(w, map[string]string{"access": access})
	}
}

// SessionLogout clears the refresh cookie. Idempotent, a request without
// a cookie still succeeds.
func SessionLogout(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pkgauth.ClearRefreshCookie(w, cfg.App.IsProd())
		responses.WriteSuccess(w, map[string]string{"message": "logged out"})
	}
}
