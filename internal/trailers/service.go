package trailers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
)

// Service manages externally hosted trailers attached to movies.
type Service interface {
	Add(ctx context.Context, req AddTrailerRequest) (*TrailerDTO, error)
	Get(ctx context.Context, trailerID string) (*TrailerDTO, error)
	ListByMovie(ctx context.Context, movieID string) ([]TrailerDTO, error)
	Update(ctx context.Context, trailerID string, req UpdateTrailerRequest) (*TrailerDTO, error)
	Delete(ctx context.Context, trailerID string) error
	DeleteByMovie(ctx context.Context, movieID string) error
}

type trailerRepository interface {
	Create(ctx context.Context, trailer *models.Trailer) error
	FindByID(ctx context.Context, trailerID string) (*models.Trailer, error)
	ListByMovie(ctx context.Context, movieID string) ([]models.Trailer, error)
	UpdateColumns(ctx context.Context, trailerID string, columns map[string]any) error
	Delete(ctx context.Context, trailerID string) error
	DeleteByMovie(ctx context.Context, movieID string) error
}

type movieFinder interface {
	FindByID(ctx context.Context, movieID string) (*models.Movie, error)
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Repo   trailerRepository
	Movies movieFinder
}

type service struct {
	repo   trailerRepository
	movies movieFinder
}

// NewService wires a trailer service from its dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("trailers: repo is required")
	}
	if params.Movies == nil {
		return nil, errors.New("trailers: movie finder is required")
	}
	return &service{repo: params.Repo, movies: params.Movies}, nil
}

// Add records a trailer URL for an existing movie.
func (s *service) Add(ctx context.Context, req AddTrailerRequest) (*TrailerDTO, error) {
	if strings.TrimSpace(req.MovieID) == "" || strings.TrimSpace(req.URL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movie id and url are required")
	}
	if _, err := s.movies.FindByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load movie")
	}

	trailer := req.toModel(uuid.NewString())
	if err := s.repo.Create(ctx, trailer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save trailer")
	}
	dto := FromModel(trailer)
	return &dto, nil
}

// Get returns one stored trailer.
func (s *service) Get(ctx context.Context, trailerID string) (*TrailerDTO, error) {
	trailer, err := s.loadTrailer(ctx, trailerID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(trailer)
	return &dto, nil
}

// ListByMovie returns every trailer attached to a movie.
func (s *service) ListByMovie(ctx context.Context, movieID string) ([]TrailerDTO, error) {
	rows, err := s.repo.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list trailers")
	}
	out := make([]TrailerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// Update patches trailer metadata.
func (s *service) Update(ctx context.Context, trailerID string, req UpdateTrailerRequest) (*TrailerDTO, error) {
	columns := map[string]any{}
	if req.Title != nil {
		columns["title"] = strings.TrimSpace(*req.Title)
	}
	if req.URL != nil {
		columns["url"] = strings.TrimSpace(*req.URL)
	}
	if req.Description != nil {
		columns["description"] = *req.Description
	}
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if _, err := s.loadTrailer(ctx, trailerID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateColumns(ctx, trailerID, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update trailer")
	}
	return s.Get(ctx, trailerID)
}

// Delete removes one trailer row.
func (s *service) Delete(ctx context.Context, trailerID string) error {
	if _, err := s.loadTrailer(ctx, trailerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, trailerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete trailer")
	}
	return nil
}

// DeleteByMovie drops every trailer row for a movie. Used by the movie
// delete cascade.
func (s *service) DeleteByMovie(ctx context.Context, movieID string) error {
	if err := s.repo.DeleteByMovie(ctx, movieID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete trailers")
	}
	return nil
}

func (s *service) loadTrailer(ctx context.Context, trailerID string) (*models.Trailer, error) {
	trailer, err := s.repo.FindByID(ctx, trailerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trailer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load trailer")
	}
	return trailer, nil
}
