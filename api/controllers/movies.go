package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mofihq/mofi-backend/api/middleware"
	"github.com/mofihq/mofi-backend/api/responses"
	"github.com/mofihq/mofi-backend/api/validators"
	"github.com/mofihq/mofi-backend/internal/movies"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
)

// MovieCreate registers a movie under the authenticated member. The
// creator also gets a full crew role written by the service.
func MovieCreate(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		creatorID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body movies.CreateMovieRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movie, err := svc.Create(r.Context(), creatorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, movie)
	}
}

func MovieList(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func MovieGet(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movie, err := svc.Get(r.Context(), movieIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, movie)
	}
}

func MovieUpdate(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body movies.UpdateMovieRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movie, err := svc.Update(r.Context(), movieIDParam(r), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, movie)
	}
}

// MovieDelete removes the movie row together with its media and crew
// roles. The service owns the fan-out ordering.
func MovieDelete(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), movieIDParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "movie deleted"})
	}
}

// MovieRate applies one member's star vote to the running aggregate.
func MovieRate(svc movies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "movie service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body movies.RatingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movie, err := svc.UpdateRating(r.Context(), movieIDParam(r), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, movie)
	}
}

func movieIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "movieId"))
}
