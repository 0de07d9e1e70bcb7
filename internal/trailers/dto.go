package trailers

import (
	"time"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// AddTrailerRequest registers an externally hosted trailer for a movie.
type AddTrailerRequest struct {
	MovieID     string `json:"movie_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description"`
}

// UpdateTrailerRequest patches trailer metadata. Nil fields are left
// untouched.
type UpdateTrailerRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url" validate:"omitempty,url"`
	Description *string `json:"description"`
}

// TrailerDTO is the outward shape of a stored trailer.
type TrailerDTO struct {
	TrailerID   string    `json:"trailer_id"`
	MovieID     string    `json:"movie_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FromModel converts a stored trailer row to its DTO.
func FromModel(m *models.Trailer) TrailerDTO {
	return TrailerDTO{
		TrailerID:   m.TrailerID,
		MovieID:     m.MovieID,
		Title:       m.Title,
		URL:         m.URL,
		Description: m.Description,
		UploadedAt:  m.UploadedAt,
	}
}

func (r AddTrailerRequest) toModel(trailerID string) *models.Trailer {
	return &models.Trailer{
		TrailerID:   trailerID,
		MovieID:     r.MovieID,
		Title:       r.Title,
		URL:         r.URL,
		Description: r.Description,
	}
}
