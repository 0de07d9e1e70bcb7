package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
)

// CrewEntry is one member's row in the crew ledger. Movies maps movie id
// to the member's role on that movie; a row is deleted rather than kept
// with an empty map.
type CrewEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MemberID  string          `gorm:"column:member_id;not null;uniqueIndex"`
	Movies    dbtypes.RoleMap `gorm:"column:movies;type:jsonb;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
