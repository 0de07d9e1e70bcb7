package movies

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db"
	"github.com/mofihq/mofi-backend/pkg/db/models"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
)

// Service defines the movie-registry behavior needed by controllers.
type Service interface {
	Create(ctx context.Context, creatorID string, req CreateMovieRequest) (*MovieDTO, error)
	Get(ctx context.Context, movieID string) (*MovieDTO, error)
	List(ctx context.Context) ([]MovieDTO, error)
	Update(ctx context.Context, movieID string, req UpdateMovieRequest) (*MovieDTO, error)
	Delete(ctx context.Context, movieID string) error
	UpdateRating(ctx context.Context, movieID string, req RatingRequest) (*MovieDTO, error)
}

type registryRepository interface {
	Create(ctx context.Context, movie *models.Movie) error
	FindByID(ctx context.Context, movieID string) (*models.Movie, error)
	FindByIMDBID(ctx context.Context, imdbID string) (*models.Movie, error)
	List(ctx context.Context) ([]models.Movie, error)
	UpdateColumns(ctx context.Context, movieID string, columns map[string]any) error
	Delete(ctx context.Context, movieID string) error
}

// crewLedger is the slice of the crew service the registry drives on
// movie lifecycle events.
type crewLedger interface {
	EnsureCreator(ctx context.Context, movieID, creatorID string) error
	RemoveMovie(ctx context.Context, movieID string) error
}

// assetRemover deletes the asset rows that reference a movie.
type assetRemover interface {
	DeleteByMovie(ctx context.Context, movieID string) error
}

type service struct {
	repo     registryRepository
	crew     crewLedger
	images   assetRemover
	trailers assetRemover
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a movie service.
type ServiceParams struct {
	Repo     registryRepository
	Crew     crewLedger
	Images   assetRemover
	Trailers assetRemover
	Logger   *logger.Logger
}

// NewService constructs a movie service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("movie repository is required")
	}
	if params.Crew == nil {
		return nil, fmt.Errorf("crew ledger is required")
	}
	return &service{
		repo:     params.Repo,
		crew:     params.Crew,
		images:   params.Images,
		trailers: params.Trailers,
		logg:     params.Logger,
	}, nil
}

// Create registers a movie and writes the creator's role through to the
// crew ledger. The two writes are sequential, not transactional; if the
// ledger write fails the frozen user_id still resolves the creator's
// access until the grant is replayed.
func (s *service) Create(ctx context.Context, creatorID string, req CreateMovieRequest) (*MovieDTO, error) {
	if creatorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}

	_, err := s.repo.FindByIMDBID(ctx, req.IMDBID)
	switch {
	case err == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a movie with this imdb id already exists")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check imdb id")
	}

	movie := req.toModel(uuid.NewString(), creatorID)
	if err := s.repo.Create(ctx, movie); err != nil {
		// Concurrent registration can slip past the lookup above.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a movie with this imdb id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create movie")
	}

	if err := s.crew.EnsureCreator(ctx, movie.MovieID, creatorID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record creator role")
	}

	return FromModel(movie), nil
}

// Get loads one movie.
func (s *service) Get(ctx context.Context, movieID string) (*MovieDTO, error) {
	movie, err := s.loadMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return FromModel(movie), nil
}

// List returns the full registry.
func (s *service) List(ctx context.Context) ([]MovieDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list movies")
	}

	out := make([]MovieDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// Update applies a partial metadata change. The frozen user_id and the
// rating counters are not reachable through this path.
func (s *service) Update(ctx context.Context, movieID string, req UpdateMovieRequest) (*MovieDTO, error) {
	if _, err := s.loadMovie(ctx, movieID); err != nil {
		return nil, err
	}

	columns := map[string]any{}
	if req.Type != nil {
		columns["type"] = *req.Type
	}
	if req.Title != nil {
		columns["title"] = *req.Title
	}
	if req.Description != nil {
		columns["description"] = *req.Description
	}
	if req.Directors != nil {
		columns["directors"] = req.Directors
	}
	if req.Writers != nil {
		columns["writers"] = req.Writers
	}
	if req.Genres != nil {
		columns["genres"] = req.Genres
	}
	if req.ReleaseDate != nil {
		columns["release_date"] = *req.ReleaseDate
	}
	if req.Duration != nil {
		columns["duration"] = *req.Duration
	}
	if req.Image1 != nil {
		columns["image1"] = *req.Image1
	}
	if req.Image2 != nil {
		columns["image2"] = *req.Image2
	}
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateColumns(ctx, movieID, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update movie")
	}

	movie, err := s.loadMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return FromModel(movie), nil
}

// Delete cascades the crew ledger first, then removes the movie row and,
// best effort, its asset rows.
func (s *service) Delete(ctx context.Context, movieID string) error {
	if _, err := s.loadMovie(ctx, movieID); err != nil {
		return err
	}

	if err := s.crew.RemoveMovie(ctx, movieID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cascade crew ledger")
	}

	if err := s.repo.Delete(ctx, movieID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete movie")
	}

	s.removeAssetRows(ctx, movieID)
	return nil
}

func (s *service) removeAssetRows(ctx context.Context, movieID string) {
	for name, remover := range map[string]assetRemover{"images": s.images, "trailers": s.trailers} {
		if remover == nil {
			continue
		}
		if err := remover.DeleteByMovie(ctx, movieID); err != nil && s.logg != nil {
			fields := map[string]any{"movie_id": movieID, "assets": name}
			s.logg.Error(s.logg.WithFields(ctx, fields), "asset row cleanup failed", err)
		}
	}
}

// UpdateRating folds one vote into the movie's counters. Corrupt counters
// are reset to zero before the vote is applied, and the derived rate is
// rounded to two decimals.
func (s *service) UpdateRating(ctx context.Context, movieID string, req RatingRequest) (*MovieDTO, error) {
	movie, err := s.loadMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	vote, count := movie.RateVote, movie.RateCount
	if vote < 0 || count < 0 {
		vote, count = 0, 0
	}

	if req.IsNewRating {
		vote += int64(req.Stars)
		count++
	} else {
		vote = vote - int64(req.OldStars) + int64(req.Stars)
		if vote < 0 {
			vote = 0
		}
	}

	rate := 0.0
	if count > 0 {
		rate = math.Round(float64(vote)/float64(count)*100) / 100
	}

	columns := map[string]any{"rate_vote": vote, "rate_count": count, "rate": rate}
	if err := s.repo.UpdateColumns(ctx, movieID, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update rating")
	}

	movie.RateVote, movie.RateCount, movie.Rate = vote, count, rate
	return FromModel(movie), nil
}

func (s *service) loadMovie(ctx context.Context, movieID string) (*models.Movie, error) {
	movie, err := s.repo.FindByID(ctx, movieID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
	}
	return movie, nil
}
