package models

import "time"

// Trailer is a trailer asset attached to a movie.
type Trailer struct {
	TrailerID   string    `gorm:"column:trailer_id;primaryKey"`
	MovieID     string    `gorm:"column:movie_id;not null;index"`
	Title       string    `gorm:"column:title;not null"`
	URL         string    `gorm:"column:url;not null"`
	Description string    `gorm:"column:description"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}
