package access

import (
	"time"

	"github.com/mofihq/mofi-backend/pkg/db/models"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
)

// MovieDetails is the summary attached to a per-movie resolution.
type MovieDetails struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Resolution is the outcome of resolving one member against one movie.
type Resolution struct {
	MemberID     string              `json:"member_id"`
	MovieID      string              `json:"movie_id"`
	HasAccess    bool                `json:"has_access"`
	IsCreator    bool                `json:"is_creator"`
	Contribution string              `json:"contribution,omitempty"`
	Permissions  dbtypes.Permissions `json:"permissions"`
	MovieDetails MovieDetails        `json:"movie_details"`
}

// Movie is the hydrated summary carried by accessible-movie listings.
type Movie struct {
	MovieID     string     `json:"movie_id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	Genres      []string   `json:"genres"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Rate        float64    `json:"rate"`
}

// AccessibleMovie pairs a movie summary with the member's role on it.
type AccessibleMovie struct {
	Movie        Movie               `json:"movie"`
	Contribution string              `json:"contribution"`
	IsCreator    bool                `json:"is_creator"`
	Permissions  dbtypes.Permissions `json:"permissions"`
}

// AccessibleMovies is the full union listing with derived counts.
type AccessibleMovies struct {
	Movies       []AccessibleMovie `json:"movies"`
	Total        int               `json:"total"`
	CreatedCount int               `json:"created_count"`
	CrewCount    int               `json:"crew_count"`
}

func movieSummary(m *models.Movie) Movie {
	return Movie{
		MovieID:     m.MovieID,
		Title:       m.Title,
		Type:        m.Type,
		Description: m.Description,
		Genres:      append([]string(nil), m.Genres...),
		ReleaseDate: m.ReleaseDate,
		Rate:        m.Rate,
	}
}
