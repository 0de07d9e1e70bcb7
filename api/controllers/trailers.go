package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mofihq/mofi-backend/api/responses"
	"github.com/mofihq/mofi-backend/api/validators"
	"github.com/mofihq/mofi-backend/internal/trailers"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
)

type addTrailerBody struct {
	Title       string `json:"title" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description"`
}

// TrailerAdd registers an externally hosted trailer under the movie in
// the path. Only the URL is stored, the file never passes through here.
func TrailerAdd(svc trailers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trailer service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addTrailerBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trailer, err := svc.Add(r.Context(), trailers.AddTrailerRequest{
			MovieID:     movieIDParam(r),
			Title:       body.Title,
			URL:         body.URL,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, trailer)
	}
}

func TrailerList(svc trailers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trailer service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByMovie(r.Context(), movieIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func TrailerGet(svc trailers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trailer service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trailer, err := svc.Get(r.Context(), trailerIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, trailer)
	}
}

func TrailerUpdate(svc trailers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trailer service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body trailers.UpdateTrailerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trailer, err := svc.Update(r.Context(), trailerIDParam(r), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, trailer)
	}
}

func TrailerDelete(svc trailers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trailer service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), trailerIDParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "trailer deleted"})
	}
}

func trailerIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "trailerId"))
}
