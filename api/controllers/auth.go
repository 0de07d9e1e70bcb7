package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mofihq/mofi-backend/api/middleware"
	"github.com/mofihq/mofi-backend/api/responses"
	"github.com/mofihq/mofi-backend/api/validators"
	"github.com/mofihq/mofi-backend/internal/auth"
	pkgauth "github.com/mofihq/mofi-backend/pkg/auth"
	"github.com/mofihq/mofi-backend/pkg/config"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/upload"
)

const registerFormLimit = 32 << 20 // in-memory cap for the multipart parse

// AuthRegister handles producer signup. The body is multipart so the
// optional profile picture can ride along with the form fields.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(registerFormLimit); err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body must be multipart form data")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := auth.RegisterRequest{
			FirstName:        strings.TrimSpace(r.FormValue("first_name")),
			LastName:         strings.TrimSpace(r.FormValue("last_name")),
			Email:            strings.TrimSpace(r.FormValue("email")),
			Password:         r.FormValue("password"),
			ConfirmPassword:  r.FormValue("confirm_password"),
			Contact:          strings.TrimSpace(r.FormValue("contact")),
			NICNumber:        strings.TrimSpace(r.FormValue("nic_number")),
			Street:           strings.TrimSpace(r.FormValue("street_address")),
			City:             strings.TrimSpace(r.FormValue("city")),
			State:            strings.TrimSpace(r.FormValue("state")),
			PostalCode:       strings.TrimSpace(r.FormValue("postal")),
			Country:          strings.TrimSpace(r.FormValue("country")),
			ProfessionalName: strings.TrimSpace(r.FormValue("professional_name")),
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

// AuthLogin authenticates a producer. The access token rides in the body;
// the refresh token only ever travels as an HttpOnly cookie.
func AuthLogin(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
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

// AuthResendVerification re-sends the verification email. Already verified
// accounts are a quiet no-op so the endpoint leaks nothing.
func AuthResendVerification(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.ResendVerificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resent, err := svc.ResendVerification(r.Context(), body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg := "verification email sent"
		if !resent {
			msg = "email already verified"
		}
		responses.WriteSuccess(w, map[string]string{"message": msg})
	}
}

// AuthVerifyEmail lands the emailed link. It always redirects to the
// frontend, carrying the outcome in the query string.
func AuthVerifyEmail(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := strings.TrimSpace(chi.URLParam(r, "token"))
		http.Redirect(w, r, svc.VerifyEmail(r.Context(), token), http.StatusFound)
	}
}

// AuthMe returns the authenticated producer's safe profile.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producerID, err := subjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Me(r.Context(), producerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// AuthUpdateProfile patches the producer's profile. The body is multipart
// so a replacement picture can ride along; absent fields stay untouched.
func AuthUpdateProfile(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producerID, err := subjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(registerFormLimit); err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body must be multipart form data")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req auth.UpdateProfileRequest
		field := func(name string) *string {
			if _, ok := r.MultipartForm.Value[name]; !ok {
				return nil
			}
			value := strings.TrimSpace(r.FormValue(name))
			return &value
		}
		req.FirstName = field("first_name")
		req.LastName = field("last_name")
		req.ProfessionalName = field("professional_name")
		req.Contact = field("contact")
		req.Street = field("street_address")
		req.City = field("city")
		req.State = field("state")
		req.PostalCode = field("postal")
		req.Country = field("country")

		var profilePic upload.File
		if _, header, err := r.FormFile("profile_pic"); err == nil {
			profilePic = upload.FromMultipart(header)
		}

		profile, err := svc.UpdateProfile(r.Context(), producerID, req, profilePic)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

func AuthChangePassword(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producerID, err := subjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), producerID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "password changed"})
	}
}

// AuthDeleteAccount removes the producer after a typed name confirmation.
// The refresh cookie is cleared so the browser forgets the session.
func AuthDeleteAccount(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producerID, err := subjectID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.DeleteAccountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteAccount(r.Context(), producerID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pkgauth.ClearRefreshCookie(w, cfg.App.IsProd())
		responses.WriteSuccess(w, map[string]string{"message": "account deleted"})
	}
}

// subjectID pulls the authenticated subject out of the request context.
func subjectID(r *http.Request) (uuid.UUID, error) {
	raw, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token subject")
	}
	return id, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
