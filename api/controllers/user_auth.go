package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mofihq/mofi-backend/api/responses"
	"github.com/mofihq/mofi-backend/api/validators"
	"github.com/mofihq/mofi-backend/internal/auth"
	pkgauth "github.com/mofihq/mofi-backend/pkg/auth"
	"github.com/mofihq/mofi-backend/pkg/config"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/upload"
)

// UserRegister handles crew signup. The body is multipart so the optional
// profile picture can ride along with the form fields.
func UserRegister(svc auth.UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(registerFormLimit); err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body must be multipart form data")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := auth.UserRegisterRequest{
			Name:            strings.TrimSpace(r.FormValue("name")),
			Username:        strings.TrimSpace(r.FormValue("username")),
			Email:           strings.TrimSpace(r.FormValue("email")),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
		}

		if raw := strings.TrimSpace(r.FormValue("dob")); raw != "" {
			dob, err := parseDate(raw)
			if err != nil {
				err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "dob must be a date")
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.DateOfBirth = &dob
		}

		if err := validators.ValidateStruct(req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var profilePic upload.File
		if _, header, err := r.FormFile("profile_pic"); err == nil {
			profilePic = upload.FromMultipart(header)
		}

		if err := svc.Register(r.Context(), req, profilePic); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{
			"message": "registration successful, please verify your email",
		})
	}
}

// UserVerifyEmail lands the emailed link and always redirects to the
// frontend with the outcome in the query string.
func UserVerifyEmail(svc auth.UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := strings.TrimSpace(chi.URLParam(r, "token"))
		http.Redirect(w, r, svc.VerifyEmail(r.Context(), token), http.StatusFound)
	}
}

// UserRequestPasswordReset mails a reset link to a known account.
func UserRequestPasswordReset(svc auth.UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.PasswordResetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RequestPasswordReset(r.Context(), body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "password reset email sent"})
	}
}

// UserResetPassword redeems the emailed token for a new credential.
func UserResetPassword(svc auth.UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPassword(r.Context(), body.Token, body.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "password updated"})
	}
}

// UserLogin authenticates a crew-side account with local credentials.
func UserLogin(svc auth.UserService, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkgauth.SetRefreshCookie(w, result.RefreshToken, cfg.JWT.RefreshTTL(), cfg.App.IsProd())
		responses.WriteSuccess(w, result)
	}
}

// UserMe returns the authenticated crew account's safe profile.
func UserMe(svc auth.UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := subjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// GoogleLogin bounces the browser to Google's consent screen with a
// fresh state nonce.
func GoogleLogin(svc auth.UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, svc.GoogleAuthURL(oauthState()), http.StatusFound)
	}
}

// GoogleCallback finishes the OAuth exchange, upserts the account and
// redirects to the frontend with the access token. The refresh token
// travels only as the HttpOnly cookie.
func GoogleCallback(svc auth.UserService, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "user auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code := strings.TrimSpace(r.URL.Query().Get("code"))
		result, err := svc.GoogleCallback(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkgauth.SetRefreshCookie(w, result.RefreshToken, cfg.JWT.RefreshTTL(), cfg.App.IsProd())
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
	}
}

func oauthState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "state"
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
