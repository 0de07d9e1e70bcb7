package images

import (
	"time"

	"github.com/lib/pq"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// UploadImageRequest carries the metadata sent alongside an image file.
type UploadImageRequest struct {
	MovieID     string   `json:"movie_id" validate:"required"`
	Title       string   `json:"title"`
	People      []string `json:"people"`
	Description string   `json:"description"`
}

// UpdateImageRequest patches the mutable metadata of an image. Nil fields
// are left untouched.
type UpdateImageRequest struct {
	Title       *string  `json:"title"`
	People      []string `json:"people"`
	Description *string  `json:"description"`
}

// ImageDTO is the outward shape of a stored movie image.
type ImageDTO struct {
	ImageID     string    `json:"image_id"`
	MovieID     string    `json:"movie_id"`
	Title       string    `json:"title"`
	People      []string  `json:"people"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FromModel converts a stored image row to its DTO.
func FromModel(m *models.MovieImage) ImageDTO {
	return ImageDTO{
		ImageID:     m.ImageID,
		MovieID:     m.MovieID,
		Title:       m.Title,
		People:      m.People,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		UploadedAt:  m.UploadedAt,
	}
}

func (r UploadImageRequest) toModel(imageID, publicID, imageURL string) *models.MovieImage {
	return &models.MovieImage{
		ImageID:     imageID,
		MovieID:     r.MovieID,
		Title:       r.Title,
		People:      pq.StringArray(r.People),
		Description: r.Description,
		ImageURL:    imageURL,
		PublicID:    publicID,
	}
}
