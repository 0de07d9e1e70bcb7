package images

import (
	"context"

	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// Repository exposes movie-image persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new image row.
func (r *Repository) Create(ctx context.Context, image *models.MovieImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// FindByID loads an image row by its id.
func (r *Repository) FindByID(ctx context.Context, imageID string) (*models.MovieImage, error) {
	var image models.MovieImage
	if err := r.db.WithContext(ctx).First(&image, "image_id = ?", imageID).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ListByMovie returns the image rows attached to a movie.
func (r *Repository) ListByMovie(ctx context.Context, movieID string) ([]models.MovieImage, error) {
	var out []models.MovieImage
	if err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("uploaded_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateColumns applies a partial column update to an image row.
func (r *Repository) UpdateColumns(ctx context.Context, imageID string, columns map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MovieImage{}).
		Where("image_id = ?", imageID).
		Updates(columns).Error
}

// Delete removes one image row.
func (r *Repository) Delete(ctx context.Context, imageID string) error {
	return r.db.WithContext(ctx).Delete(&models.MovieImage{}, "image_id = ?", imageID).Error
}

// DeleteByMovie removes every image row attached to a movie.
func (r *Repository) DeleteByMovie(ctx context.Context, movieID string) error {
	return r.db.WithContext(ctx).Delete(&models.MovieImage{}, "movie_id = ?", movieID).Error
}
