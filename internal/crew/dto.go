package crew

import (
	"time"

	"github.com/google/uuid"

	"github.com/mofihq/mofi-backend/pkg/db/models"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
)

// ContributionCreator is the role written for the account that registered
// a movie. Access resolution treats it as ownership.
const ContributionCreator = "Creator"

// EntryDTO is the transport shape of one ledger row.
type EntryDTO struct {
	ID        uuid.UUID                    `json:"id"`
	MemberID  string                       `json:"member_id"`
	Movies    map[string]dbtypes.RoleEntry `json:"movies"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// MemberRole is the flattened per-movie listing shape.
type MemberRole struct {
	CrewID       uuid.UUID           `json:"crew_id"`
	MemberID     string              `json:"member_id"`
	MovieID      string              `json:"movie_id"`
	Contribution string              `json:"contribution"`
	Permissions  dbtypes.Permissions `json:"permissions"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// RoleUpdate carries a partial role change. Nil fields are left untouched;
// a non-nil Permissions replaces the stored bundle wholesale.
type RoleUpdate struct {
	Contribution *string
	Permissions  *dbtypes.Permissions
}

func entryFromModel(e *models.CrewEntry) *EntryDTO {
	if e == nil {
		return nil
	}

	movies := make(map[string]dbtypes.RoleEntry, len(e.Movies))
	for movieID, role := range e.Movies {
		movies[movieID] = role
	}

	return &EntryDTO{
		ID:        e.ID,
		MemberID:  e.MemberID,
		Movies:    movies,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
