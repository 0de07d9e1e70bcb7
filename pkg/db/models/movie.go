package models

import (
	"time"

	"github.com/lib/pq"
)

// Movie is the registry record for one title. UserID is the legacy creator
// marker written once at creation; access resolution consults the crew
// ledger first and falls back to it for pre-ledger rows.
type Movie struct {
	MovieID     string         `gorm:"column:movie_id;primaryKey"`
	UserID      string         `gorm:"column:user_id;not null;index"`
	IMDBID      string         `gorm:"column:imdb_id;not null;uniqueIndex"`
	Type        string         `gorm:"column:type;not null"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description"`
	Directors   pq.StringArray `gorm:"column:directors;type:text[]"`
	Writers     pq.StringArray `gorm:"column:writers;type:text[]"`
	Genres      pq.StringArray `gorm:"column:genres;type:text[]"`
	ReleaseDate *time.Time     `gorm:"column:release_date"`
	Duration    int            `gorm:"column:duration"`
	Image1      *string        `gorm:"column:image1"`
	Image2      *string        `gorm:"column:image2"`
	Images      pq.StringArray `gorm:"column:images;type:text[]"`
	RateVote    int64          `gorm:"column:rate_vote;not null;default:0"`
	RateCount   int64          `gorm:"column:rate_count;not null;default:0"`
	Rate        float64        `gorm:"column:rate;not null;default:0"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
