package models

import (
	"time"

	"github.com/lib/pq"
)

// MovieImage is a still-image asset attached to a movie. ImageURL points at
// the blob store object; the movie row keeps a back-reference in its images
// array.
type MovieImage struct {
	ImageID     string         `gorm:"column:image_id;primaryKey"`
	MovieID     string         `gorm:"column:movie_id;not null;index"`
	Title       string         `gorm:"column:title;not null"`
	People      pq.StringArray `gorm:"column:people;type:text[]"`
	Description string         `gorm:"column:description"`
	ImageURL    string         `gorm:"column:image_url;not null"`
	PublicID    string         `gorm:"column:public_id;not null"`
	UploadedAt  time.Time      `gorm:"column:uploaded_at;autoCreateTime"`
}
