package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mofihq/mofi-backend/api/responses"
	"github.com/mofihq/mofi-backend/api/validators"
	"github.com/mofihq/mofi-backend/internal/crew"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
)

type crewGrantRequest struct {
	MemberID     string              `json:"member_id" validate:"required"`
	MovieID      string              `json:"movie_id" validate:"required"`
	Contribution string              `json:"contribution" validate:"required"`
	Permissions  dbtypes.Permissions `json:"permissions"`
}

type crewUpdateRequest struct {
	Contribution *string              `json:"contribution"`
	Permissions  *dbtypes.Permissions `json:"permissions"`
}

// CrewGrant writes a role for a member on a movie, creating the member's
// ledger row if this is their first grant.
func CrewGrant(svc crew.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "crew service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body crewGrantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Grant(r.Context(), body.MemberID, body.MovieID, body.Contribution, body.Permissions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func CrewGet(svc crew.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "crew service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crewID, err := crewIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.GetEntry(r.Context(), crewID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// CrewUpdate patches one movie's role on a ledger row. Any role can be
// edited, the creator's included.
func CrewUpdate(svc crew.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "crew service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crewID, err := crewIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body crewUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Update(r.Context(), crewID, movieIDParam(r), crew.RoleUpdate{
			Contribution: body.Contribution,
			Permissions:  body.Permissions,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entry)
	}
}

// CrewRevoke removes one movie's role from a ledger row. Revoking the
// last role deletes the row.
func CrewRevoke(svc crew.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "crew service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		crewID, err := crewIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Revoke(r.Context(), crewID, movieIDParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "role revoked"})
	}
}

func CrewMembersOfMovie(svc crew.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "crew service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		members, err := svc.MembersOfMovie(r.Context(), movieIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, members)
	}
}

func crewIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "crewId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "crew id must be a uuid")
	}
	return id, nil
}
