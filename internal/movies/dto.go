package movies

import (
	"time"

	"github.com/lib/pq"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// CreateMovieRequest captures the registry fields accepted at creation.
type CreateMovieRequest struct {
	IMDBID      string     `json:"imdb_id" validate:"required"`
	Type        string     `json:"type" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Directors   []string   `json:"directors"`
	Writers     []string   `json:"writers"`
	Genres      []string   `json:"genres"`
	ReleaseDate *time.Time `json:"release_date"`
	Duration    int        `json:"duration" validate:"gte=0"`
	Image1      *string    `json:"image1"`
	Image2      *string    `json:"image2"`
}

// UpdateMovieRequest carries a partial metadata change. Nil fields are
// left untouched.
type UpdateMovieRequest struct {
	Type        *string    `json:"type"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Directors   []string   `json:"directors"`
	Writers     []string   `json:"writers"`
	Genres      []string   `json:"genres"`
	ReleaseDate *time.Time `json:"release_date"`
	Duration    *int       `json:"duration" validate:"omitempty,gte=0"`
	Image1      *string    `json:"image1"`
	Image2      *string    `json:"image2"`
}

// RatingRequest is one member's star vote.
type RatingRequest struct {
	Stars       int  `json:"stars" validate:"required,gte=1,lte=10"`
	IsNewRating bool `json:"is_new_rating"`
	OldStars    int  `json:"old_stars" validate:"gte=0,lte=10"`
}

// MovieDTO is the transport shape of a movie row.
type MovieDTO struct {
	MovieID     string     `json:"movie_id"`
	UserID      string     `json:"user_id"`
	IMDBID      string     `json:"imdb_id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Directors   []string   `json:"directors"`
	Writers     []string   `json:"writers"`
	Genres      []string   `json:"genres"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Duration    int        `json:"duration"`
	Image1      *string    `json:"image1,omitempty"`
	Image2      *string    `json:"image2,omitempty"`
	Images      []string   `json:"images"`
	RateVote    int64      `json:"rate_vote"`
	RateCount   int64      `json:"rate_count"`
	Rate        float64    `json:"rate"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromModel(m *models.Movie) *MovieDTO {
	if m == nil {
		return nil
	}

	return &MovieDTO{
		MovieID:     m.MovieID,
		UserID:      m.UserID,
		IMDBID:      m.IMDBID,
		Type:        m.Type,
		Title:       m.Title,
		Description: m.Description,
		Directors:   append([]string(nil), m.Directors...),
		Writers:     append([]string(nil), m.Writers...),
		Genres:      append([]string(nil), m.Genres...),
		ReleaseDate: m.ReleaseDate,
		Duration:    m.Duration,
		Image1:      m.Image1,
		Image2:      m.Image2,
		Images:      append([]string(nil), m.Images...),
		RateVote:    m.RateVote,
		RateCount:   m.RateCount,
		Rate:        m.Rate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (c CreateMovieRequest) toModel(movieID, creatorID string) *models.Movie {
	return &models.Movie{
		MovieID:     movieID,
		UserID:      creatorID,
		IMDBID:      c.IMDBID,
		Type:        c.Type,
		Title:       c.Title,
		Description: c.Description,
		Directors:   pq.StringArray(c.Directors),
		Writers:     pq.StringArray(c.Writers),
		Genres:      pq.StringArray(c.Genres),
		ReleaseDate: c.ReleaseDate,
		Duration:    c.Duration,
		Image1:      c.Image1,
		Image2:      c.Image2,
		Images:      pq.StringArray{},
	}
}
