package movies

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// Repository exposes movie-registry persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new movie row.
func (r *Repository) Create(ctx context.Context, movie *models.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

// FindByID loads a movie by its id.
func (r *Repository) FindByID(ctx context.Context, movieID string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).First(&movie, "movie_id = ?", movieID).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByIMDBID loads a movie by its imdb id.
func (r *Repository) FindByIMDBID(ctx context.Context, imdbID string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.WithContext(ctx).Where("imdb_id = ?", imdbID).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// List returns all movies, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Movie, error) {
	var out []models.Movie
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUserID returns the movies whose frozen creator marker names the user.
func (r *Repository) ListByUserID(ctx context.Context, userID string) ([]models.Movie, error) {
	var out []models.Movie
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateColumns applies a partial column update to a movie row.
func (r *Repository) UpdateColumns(ctx context.Context, movieID string, columns map[string]any) error {
	columns["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Where("movie_id = ?", movieID).
		Updates(columns).Error
}

// Delete removes the movie row.
func (r *Repository) Delete(ctx context.Context, movieID string) error {
	return r.db.WithContext(ctx).Delete(&models.Movie{}, "movie_id = ?", movieID).Error
}

// AddImageRef appends an asset back-reference to the movie's images array.
func (r *Repository) AddImageRef(ctx context.Context, movieID, ref string) error {
	movie, err := r.FindByID(ctx, movieID)
	if err != nil {
		return err
	}
	images := append(movie.Images, ref)
	return r.UpdateColumns(ctx, movieID, map[string]any{"images": images})
}

// RemoveImageRef pulls an asset back-reference from the movie's images array.
func (r *Repository) RemoveImageRef(ctx context.Context, movieID, ref string) error {
	movie, err := r.FindByID(ctx, movieID)
	if err != nil {
		return err
	}
	filtered := movie.Images[:0]
	for _, existing := range movie.Images {
		if existing != ref {
			filtered = append(filtered, existing)
		}
	}
	return r.UpdateColumns(ctx, movieID, map[string]any{"images": filtered})
}
