package crew

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
)

// Repository exposes crew-ledger persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByMemberID loads the single ledger row for a member.
func (r *Repository) FindByMemberID(ctx context.Context, memberID string) (*models.CrewEntry, error) {
	var entry models.CrewEntry
	if err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByID loads a ledger row by its primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CrewEntry, error) {
	var entry models.CrewEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByMovie returns every ledger row that carries a role for the movie.
// The ->> operator works on both Postgres JSONB and the sqlite used in tests.
func (r *Repository) ListByMovie(ctx context.Context, movieID string) ([]models.CrewEntry, error) {
	var entries []models.CrewEntry
	if err := r.db.WithContext(ctx).
		Where("movies ->> ? IS NOT NULL", movieID).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create inserts a new ledger row.
func (r *Repository) Create(ctx context.Context, entry *models.CrewEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// SaveMovies replaces the role map of an existing row.
func (r *Repository) SaveMovies(ctx context.Context, id uuid.UUID, movies dbtypes.RoleMap) error {
	return r.db.WithContext(ctx).
		Model(&models.CrewEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{"movies": movies, "updated_at": time.Now().UTC()}).Error
}

// Delete removes a ledger row entirely.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CrewEntry{}, "id = ?", id).Error
}
