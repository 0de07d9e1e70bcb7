package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mofihq/mofi-backend/api/responses"
	"github.com/mofihq/mofi-backend/api/validators"
	"github.com/mofihq/mofi-backend/internal/images"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/upload"
)

// ImageUpload accepts a multipart form with the image file plus its
// metadata fields. People arrive as repeated people form values.
func ImageUpload(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(registerFormLimit); err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body must be multipart form data")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := images.UploadImageRequest{
			MovieID:     movieIDParam(r),
			Title:       validators.SanitizeString(r.FormValue("title"), 255),
			Description: validators.SanitizeString(r.FormValue("description"), 2000),
		}
		for _, person := range r.MultipartForm.Value["people"] {
			if person = validators.SanitizeString(person, 255); person != "" {
				req.People = append(req.People, person)
			}
		}

		_, header, err := r.FormFile("file")
		if err != nil {
			err = pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.Upload(r.Context(), req, upload.FromMultipart(header))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, img)
	}
}

func ImageList(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable")
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

func ImageGet(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.Get(r.Context(), imageIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, img)
	}
}

func ImageUpdate(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body images.UpdateImageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.UpdateMetadata(r.Context(), imageIDParam(r), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, img)
	}
}

// ImageDelete removes the stored blob and the row. Blob failures are
// logged by the service, not surfaced here.
func ImageDelete(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), imageIDParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "image deleted"})
	}
}

func imageIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "imageId"))
}
