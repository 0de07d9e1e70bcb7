package trailers

import (
	"context"

	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// Repository exposes trailer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a trailer row.
func (r *Repository) Create(ctx context.Context, trailer *models.Trailer) error {
	return r.db.WithContext(ctx).Create(trailer).Error
}

// FindByID loads a trailer row by its id.
func (r *Repository) FindByID(ctx context.Context, trailerID string) (*models.Trailer, error) {
	var trailer models.Trailer
	if err := r.db.WithContext(ctx).First(&trailer, "trailer_id = ?", trailerID).Error; err != nil {
		return nil, err
	}
	return &trailer, nil
}

// ListByMovie returns the trailer rows attached to a movie.
func (r *Repository) ListByMovie(ctx context.Context, movieID string) ([]models.Trailer, error) {
	var out []models.Trailer
	if err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("uploaded_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateColumns applies a partial column update to a trailer row.
func (r *Repository) UpdateColumns(ctx context.Context, trailerID string, columns map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Trailer{}).
		Where("trailer_id = ?", trailerID).
		Updates(columns).Error
}

// Delete removes one trailer row.
func (r *Repository) Delete(ctx context.Context, trailerID string) error {
	return r.db.WithContext(ctx).Delete(&models.Trailer{}, "trailer_id = ?", trailerID).Error
}

// DeleteByMovie removes every trailer row attached to a movie.
func (r *Repository) DeleteByMovie(ctx context.Context, movieID string) error {
	return r.db.WithContext(ctx).Delete(&models.Trailer{}, "movie_id = ?", movieID).Error
}
